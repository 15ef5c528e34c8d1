/*
配置加载：
-c/--config 指定配置文件（JSON、TOML、YAML 等 viper 支持的格式）；
未指定时依次在当前目录、~/.<前缀>/、/etc/<前缀>/ 下查找名为 <basename> 的文件，找不到不算错误。
环境变量以 <BASENAME>_ 为前缀，配置项中的 "." 与 "-" 替换为 "_"，
例如 credentials.admin.password 对应 SERVEREST_E2E_CREDENTIALS_ADMIN_PASSWORD。
*/

package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFlagName      = "config"
	printConfigFlagName = "print-config"
)

func (a *App) addConfigFlag(fs *pflag.FlagSet) {
	fs.StringVarP(&a.cfgFile, configFlagName, "c", a.cfgFile,
		"Read configuration from the specified file, support JSON, TOML, YAML, HCL, or Java properties formats.")
	fs.BoolVar(&a.printConfig, printConfigFlagName, a.printConfig, "Print the merged configuration before running, secrets masked.")

	a.viper.AutomaticEnv()
	a.viper.SetEnvPrefix(EnvPrefix(a.basename))
	a.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// EnvPrefix is the environment variable prefix of basename, without the
// trailing underscore.
func EnvPrefix(basename string) string {
	return strings.ReplaceAll(strings.ToUpper(FormatBaseName(basename)), "-", "_")
}

func (a *App) loadConfig() error {
	if a.cfgFile != "" {
		a.viper.SetConfigFile(a.cfgFile)
	} else {
		a.viper.AddConfigPath(".")
		if names := strings.Split(a.basename, "-"); len(names) > 1 {
			if home, err := os.UserHomeDir(); err == nil {
				a.viper.AddConfigPath(filepath.Join(home, "."+names[0]))
			}
			a.viper.AddConfigPath(filepath.Join("/etc", names[0]))
		}
		a.viper.SetConfigName(FormatBaseName(a.basename))
	}

	if err := a.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && a.cfgFile == "" {
			return nil
		}
		return errors.Wrapf(err, "读取配置文件失败(%s)", a.cfgFile)
	}
	return nil
}

// printConfig prints every merged key as a table.
func printConfig(w io.Writer, v *viper.Viper) {
	keys := v.AllKeys()
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(w, "%v 配置项：\n", progressMessage)
	table := uitable.New()
	table.Separator = " "
	table.MaxColWidth = 80
	table.RightAlign(0)
	for _, k := range keys {
		table.AddRow(fmt.Sprintf("%s:", k), maskSecret(k, v.Get(k)))
	}
	fmt.Fprintln(w, table)
}

func maskSecret(key string, value interface{}) interface{} {
	if strings.HasSuffix(key, "password") || strings.HasSuffix(key, ".key") {
		if s, ok := value.(string); ok && s != "" {
			return "******"
		}
	}
	return value
}
