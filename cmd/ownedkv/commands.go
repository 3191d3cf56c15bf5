package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/ownedkv-contract/config"
	"github.com/nspcc-dev/ownedkv-contract/contracts"
	"github.com/nspcc-dev/ownedkv-contract/deploy"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var errMissingArgs = errors.New("missing arguments")

// withService opens the service described by configuration and runs f with
// it.
func withService(ctx *cli.Context, f func(context.Context, service) error) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	log, err := newLogger(ctx)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	svc, err := openService(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn("failed to close backend", zap.Error(err))
		}
	}()

	return f(context.Background(), svc)
}

func putCmd(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("%w: expected KEY VALUE", errMissingArgs)
	}

	key, err := parseBytes(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}

	value, err := parseBytes(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}

	return withService(ctx, func(c context.Context, svc service) error {
		if err := svc.Put(c, key, value); err != nil {
			return fmt.Errorf("put: %w", err)
		}

		fmt.Fprintln(ctx.App.Writer, "OK")
		return nil
	})
}

func getCmd(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("%w: expected KEY", errMissingArgs)
	}

	key, err := parseBytes(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}

	return withService(ctx, func(c context.Context, svc service) error {
		value, ok, err := svc.Get(c, key)
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}

		if !ok {
			return cli.NewExitError("record not found", 2)
		}

		fmt.Fprintln(ctx.App.Writer, formatBytes(value))
		return nil
	})
}

func deleteCmd(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("%w: expected KEY", errMissingArgs)
	}

	key, err := parseBytes(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}

	return withService(ctx, func(c context.Context, svc service) error {
		if err := svc.Delete(c, key); err != nil {
			return fmt.Errorf("delete: %w", err)
		}

		fmt.Fprintln(ctx.App.Writer, "OK")
		return nil
	})
}

func invokeCmd(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("%w: expected OP", errMissingArgs)
	}

	op := ctx.Args().First()
	args := make([]any, 0, ctx.NArg()-1)
	for _, s := range ctx.Args().Tail() {
		b, err := parseBytes(s)
		if err != nil {
			return fmt.Errorf("argument %q: %w", s, err)
		}
		args = append(args, b)
	}

	return withService(ctx, func(c context.Context, svc service) error {
		fmt.Fprintln(ctx.App.Writer, formatResult(svc.Invoke(c, op, args)))
		return nil
	})
}

func deployCmd(ctx *cli.Context) error {
	nefPath, manifestPath := ctx.String("nef"), ctx.String("manifest")
	if nefPath == "" || manifestPath == "" {
		return fmt.Errorf("%w: both --nef and --manifest are required", errMissingArgs)
	}

	ctr, err := contracts.ReadFiles(nefPath, manifestPath)
	if err != nil {
		return err
	}

	var (
		backend util.Uint160
		prm     deploy.Prm
	)

	if s := ctx.String("backend"); s != "" {
		backend, err = config.Contract{Hash: s}.ScriptHash()
		if err != nil {
			return fmt.Errorf("backend: %w", err)
		}
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	log, err := newLogger(ctx)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	b, err := newRemoteBlockchain(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	prm.Logger = log
	prm.Blockchain = b.rpc
	prm.Actor = b.actor

	common := deploy.CommonDeployPrm{NEF: ctr.NEF, Manifest: ctr.Manifest}
	if backend.Equals(util.Uint160{}) {
		prm.OwnedKV = common
	} else {
		prm.Forwarder = deploy.ForwarderPrm{Common: common, Backend: backend}
	}

	res, err := deploy.Deploy(context.Background(), prm)
	if err != nil {
		return err
	}

	h := res.OwnedKV
	if !res.Forwarder.Equals(util.Uint160{}) {
		h = res.Forwarder
	}

	fmt.Fprintln(ctx.App.Writer, h.StringLE())

	return nil
}
