/*
Package e2e 是 serverest-e2e 的命令行入口：
解析命令行参数与配置文件 → options.NewOptions()
创建应用实例 → app.NewApp()
转换配置 → config.CreateConfigFromOptions()
执行用例 → Run(ctx, cfg, out)
另外提供 compare 子命令，对比两次运行写出的结果目录。
*/
package e2e

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/e2e/config"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/e2e/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/app"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

const commandDesc = `serverest-e2e 针对一个 ServeRest 部署执行端到端用例：登录、商品与用户的完整生命周期。
每个用例自行创建并删除它使用的数据，结果写入 <output.dir>/serverest_cases.json，
并可与之前一次运行的结果目录进行对比。`

const example = `  # 使用配置文件运行全部用例
  serverest-e2e -c configs/serverest-e2e.yaml

  # 只运行登录相关用例，密码从终端读取
  serverest-e2e --credentials.standard.email=standard@qa.com --credentials.admin.email=admin@qa.com \
    --credentials.prompt --scenario.only=login-standard,login-invalid-password

  # 与上一次的结果对比，出现退化时返回非零
  serverest-e2e -c configs/serverest-e2e.yaml --output.baseline=_output/baseline --output.fail-on-regression

  # 对比两个结果目录
  serverest-e2e compare --baseline=_output/baseline --current=_output/serverest-e2e`

func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	return app.NewApp("ServeRest end to end harness", basename,
		app.WithOptions(opts),
		app.WithDescription(commandDesc),
		app.WithExample(example),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
		app.WithCommands(newCompareCommand()),
	)
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		log.Init(opts.Log)
		defer log.Flush()

		cfg, err := config.CreateConfigFromOptions(opts)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return Run(ctx, cfg, os.Stdout)
	}
}
