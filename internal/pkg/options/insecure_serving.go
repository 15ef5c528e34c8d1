/*
InsecureServingOptions 描述内置 ServeRest 替身服务的明文 HTTP 监听地址。
BindPort 为 0 时由系统分配端口，测试中通过 httptest 启动时不使用该选项。
原始配置 → Validate()（验证合法性） → Address() → 监听。
*/

package options

import (
	"net"
	"strconv"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

type InsecureServingOptions struct {
	BindAddress string `json:"bind-address" mapstructure:"bind-address"`
	BindPort    int    `json:"bind-port"    mapstructure:"bind-port"`
}

func NewInsecureServingOptions() *InsecureServingOptions {
	return &InsecureServingOptions{
		BindAddress: "127.0.0.1",
		BindPort:    3000,
	}
}

func (i *InsecureServingOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&i.BindAddress, "insecure.bind-address", "b", i.BindAddress, "监听地址（监听所有 IPv4 接口时设为 0.0.0.0）")
	fs.IntVarP(&i.BindPort, "insecure.bind-port", "p", i.BindPort, "监听端口，0 表示由系统分配")
}

func (i *InsecureServingOptions) Validate() []error {
	var errs []error
	if i.BindAddress == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "绑定的地址不能为空"))
	} else if net.ParseIP(i.BindAddress) == nil {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "无效的ip地址%s", i.BindAddress))
	}
	if i.BindPort < 0 || i.BindPort > 65535 {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "端口必须在0-65535之间"))
	}
	return errs
}

// Address is the host:port the listener binds to.
func (i *InsecureServingOptions) Address() string {
	return net.JoinHostPort(i.BindAddress, strconv.Itoa(i.BindPort))
}
