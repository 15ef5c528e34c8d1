/*
ServerOptions 描述被测 ServeRest 服务的访问方式：基础地址、单次请求超时以及客户端限速。
公共部署对请求频率敏感，RateLimit>0 时客户端在每次请求前按令牌桶等待。
原始配置 → Complete()（补全默认值） → Validate()（验证合法性） → 使用。
*/

package options

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

type ServerOptions struct {
	BaseURL   string        `json:"base-url"   mapstructure:"base-url"`
	Timeout   time.Duration `json:"timeout"    mapstructure:"timeout"`
	RateLimit float64       `json:"rate-limit" mapstructure:"rate-limit"`
	RateBurst int           `json:"rate-burst" mapstructure:"rate-burst"`
}

func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		BaseURL:   serverest.DefaultBaseURL,
		Timeout:   30 * time.Second,
		RateLimit: 0,
		RateBurst: 1,
	}
}

func (s *ServerOptions) Complete() {
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	if s.RateBurst <= 0 {
		s.RateBurst = 1
	}
}

func (s *ServerOptions) Validate() []error {
	var errs []error
	if s.BaseURL == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "server.base-url 不能为空"))
	} else if u, err := url.Parse(s.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "server.base-url 无效: %s", s.BaseURL))
	}
	if s.Timeout < 0 {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "server.timeout 不能为负数"))
	}
	if s.RateLimit < 0 {
		errs = append(errs, errors.WithCode(code.ErrConfiguration, "server.rate-limit 不能为负数"))
	}
	return errs
}

func (s *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.BaseURL, "server.base-url", s.BaseURL, "Base URL of the ServeRest API under test.")
	fs.DurationVar(&s.Timeout, "server.timeout", s.Timeout, "Timeout of a single HTTP request.")
	fs.Float64Var(&s.RateLimit, "server.rate-limit", s.RateLimit, "Maximum requests per second sent to the API, 0 disables client side limiting.")
	fs.IntVar(&s.RateBurst, "server.rate-burst", s.RateBurst, "Burst size of the client side rate limiter.")
}

func (s *ServerOptions) String() string {
	data, _ := json.Marshal(s)
	return string(data)
}
