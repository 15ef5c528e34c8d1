package options

import (
	"time"

	"github.com/google/uuid"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/validation/field"
	"github.com/spf13/pflag"
)

// JwtOptions configures the tokens the fake API issues. ServeRest tokens live
// for 600 seconds and cannot be refreshed.
type JwtOptions struct {
	Realm   string        `json:"realm"   mapstructure:"realm"`
	Key     string        `json:"-"       mapstructure:"key"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

func NewJwtOptions() *JwtOptions {
	return &JwtOptions{
		Realm:   "serverest-stub",
		Timeout: 600 * time.Second,
	}
}

// Complete generates a throwaway signing key when none is configured.
func (j *JwtOptions) Complete() {
	if j.Realm == "" {
		j.Realm = "serverest-stub"
	}
	if j.Timeout == 0 {
		j.Timeout = 600 * time.Second
	}
	if j.Key == "" {
		j.Key = uuid.NewString()
	}
}

func (j *JwtOptions) Validate() []error {
	errs := field.ErrorList{}
	path := field.NewPath("jwt")
	if j.Realm == "" {
		errs = append(errs, field.Required(path.Child("realm"), "必须输入realm"))
	} else if len(j.Realm) > 255 {
		errs = append(errs, field.TooLong(path.Child("realm"), j.Realm, 255))
	}
	if j.Timeout <= 0 {
		errs = append(errs, field.Invalid(path.Child("timeout"), j.Timeout, "timeout必须大于0"))
	}
	if j.Key != "" && len(j.Key) < 6 {
		errs = append(errs, field.Invalid(path.Child("key"), "******", "key长度不能少于6"))
	}
	agg := errs.ToAggregate()
	if agg == nil {
		return nil
	}
	return agg.Errors()
}

func (j *JwtOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&j.Realm, "jwt.realm", j.Realm, "向用户显示的Realm名称。")
	fs.StringVar(&j.Key, "jwt.key", j.Key, "用于签名JWT令牌的私钥，为空时自动生成。")
	fs.DurationVar(&j.Timeout, "jwt.timeout", j.Timeout, "JWT令牌超时时间。")
}
