// Package cli 命令行入口，也是应用的组装根
package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"ordering/config"
	"ordering/result"
)

func Execute() {
	if err := Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Run 执行一条命令，结束后释放应用资源
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	s := &session{}
	cmd := newRootCmd(s)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	err := cmd.ExecuteContext(ctx)
	if s.app != nil {
		if s.printMetrics {
			writeMetrics(out, s.app)
		}
		if cerr := s.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// session 单次命令执行期间的状态
type session struct {
	configPath   string
	printMetrics bool
	app          *App
}

// appFor 首次调用时加载配置并组装应用
func (s *session) appFor(cmd *cobra.Command) (*App, error) {
	if s.app != nil {
		return s.app, nil
	}
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, err
	}
	if s.printMetrics {
		cfg.Metrics.Enabled = true
	}
	app, err := Build(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	s.app = app
	return app, nil
}

func newRootCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ordering",
		Short:        "Orders and customers with validation and domain events",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&s.configPath, "config", "c", "", "YAML config file (optional; ORDERING_* env vars override)")
	cmd.PersistentFlags().BoolVar(&s.printMetrics, "metrics", false, "enable metrics and print them after the command")

	cmd.AddCommand(orderCmd(s))
	cmd.AddCommand(customerCmd(s))
	return cmd
}

// writeResult 成功时输出 JSON，失败时合并全部错误返回
func writeResult[T any](cmd *cobra.Command, r result.Result[T]) error {
	if r.IsFailure() {
		return stderrors.Join(r.Errors()...)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(r.Value())
}

func writeMetrics(out io.Writer, app *App) {
	if app.Metrics == nil {
		return
	}
	families, err := app.Metrics.Gather()
	if err != nil {
		fmt.Fprintln(out, "gather metrics:", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			fmt.Fprintf(out, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
}
