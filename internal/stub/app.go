package stub

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/stub/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/app"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

const commandDesc = `serverest-stub 在内存中模拟 ServeRest 的 /login、/produtos 与 /usuarios 接口，
用于在本地或 CI 中运行 serverest-e2e 而不依赖公共部署。启动时写入一个普通账号和一个管理员账号。`

const example = `  # 以默认种子账号监听 127.0.0.1:3000
  serverest-stub

  # 指定端口与管理员账号，并开启请求转储
  serverest-stub --insecure.bind-port=8080 --seed.admin.email=root@qa.com --seed.admin.password=secret --feature.dump`

func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	return app.NewApp("ServeRest stub server", basename,
		app.WithOptions(opts),
		app.WithDescription(commandDesc),
		app.WithExample(example),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		log.Init(opts.Log)
		defer log.Flush()

		s, err := New(opts)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.Run(ctx)
	}
}
