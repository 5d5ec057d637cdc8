package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/capachica-client/internal/api"
	"github.com/uma-arai/capachica-client/internal/common/config"
	"github.com/uma-arai/capachica-client/internal/common/utils"
	"github.com/uma-arai/capachica-client/internal/service/controller"
	"github.com/uma-arai/capachica-client/internal/service/session"
)

const (
	projectName = "capachica-cli"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "コマンドのタイムアウト時間")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{ServiceVersion: "1.0.0"}); err != nil {
			log.Printf("Failed to configure X-Ray: %v", err)
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := session.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}

	client, err := api.NewClient(api.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		EnableTracing: cfg.EnableTracing,
	}, store)
	if err != nil {
		closeStore()
		log.Fatalf("Failed to create api client: %v", err)
	}

	a := &app{client: client, ctrl: controller.New(client, store), store: store, out: os.Stdout}

	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		if err := seg.AddMetadata("command", flag.Arg(0)); err != nil {
			log.Printf("Failed to add command metadata: %v", err)
		}
	}

	err = utils.RunWithTimeout(ctx, *timeout, func(ctx context.Context) error {
		return a.run(ctx, flag.Args())
	})
	if closeErr := closeStore(); closeErr != nil {
		log.Printf("Failed to close session store: %v", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(flag.CommandLine.Output(), `usage: capachica [-timeout 2m] <command> [args]

auth:
  login -email E -password P
  register -name N -email E -password P [-role cliente]
  logout
  session
  me

resources (`+resourceNames()+`):
  list <resource> [-status S]
  get <resource> <id>
  create <resource> -json '{...}'
  update <resource> <id> -json '{...}'
  delete <resource> <id>

booking:
  reserve -product ID -quantity N -date YYYY-MM-DD -code C [-message M]
  pay -reservation ID -method M [-code C] [-note N] [-image PATH]
  confirm-payment <id>
  reject-payment <id>
  summary [-status S]

content:
  gallery-upload <path>
  home-update -json '{...}'
`)
	flag.PrintDefaults()
}
