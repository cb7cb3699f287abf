// Command flinuxgoctl is a smoke-test harness for github.com/flinuxgo/core:
// it wires up a corevm.Core against a real host directory and a fake DBT
// (dbt/dbtfake), and exposes a handful of subcommands that exercise the
// syscall-boundary API end to end without a real guest process attached.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flinuxgo/core/corepkg"
	"github.com/flinuxgo/core/corevm"
	"github.com/flinuxgo/core/dbt/dbtfake"
	"github.com/flinuxgo/core/internal/corelog"
	"github.com/flinuxgo/core/internal/winproc"
	"github.com/flinuxgo/core/signal"
)

var (
	rootDir  string
	verbose  bool
	rootCmd  = &cobra.Command{
		Use:   "flinuxgoctl",
		Short: "Exercise a flinuxgo core against a host directory",
		Long: `
flinuxgoctl builds a corevm.Core rooted at --root and drives its VFS,
signal, and process state through a small set of subcommands. There is no
real guest process behind it: the main thread is a no-op Suspender and the
DBT is dbtfake, the same test double the package tests use.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "host directory the guest's / mounts onto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(catCommand)
	rootCmd.AddCommand(mkdirCommand)
	rootCmd.AddCommand(lsCommand)
	rootCmd.AddCommand(pipeCommand)
	rootCmd.AddCommand(devicesCommand)
	rootCmd.AddCommand(killCommand)
}

// noopThread satisfies winproc.Suspender without touching any real OS
// thread, the way the package tests' own fakeThread does — flinuxgoctl has
// no guest main thread to suspend.
type noopThread struct{}

func (noopThread) WithSuspended(fn func(*winproc.Context) error) error {
	var ctx winproc.Context
	return fn(&ctx)
}

func newCore(ctx context.Context) (*corevm.Core, error) {
	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	_ = corelog.New(level)

	mem := dbtfake.NewGuestMemory(0x1000, 4096)
	return corevm.New(ctx, corepkg.DefaultConfig(), rootDir, noopThread{}, &dbtfake.Translator{}, mem)
}

var catCommand = &cobra.Command{
	Use:   "cat path",
	Short: "Open a guest path and dump its contents to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newCore(ctx)
		if err != nil {
			return err
		}
		defer c.Shutdown(ctx)

		fd, err := c.VFS.Open(ctx, c.Process.Getcwd(), args[0], 0, 0)
		if err != nil {
			return err
		}
		defer c.VFS.FDTable().Close(ctx, fd)

		f, ok := c.VFS.FDTable().Get(fd)
		if !ok {
			return fmt.Errorf("flinuxgoctl: fd %d vanished after open", fd)
		}
		buf := make([]byte, 32*1024)
		for {
			n, err := f.Read(ctx, buf)
			if n > 0 {
				os.Stdout.Write(buf[:n])
			}
			if err == io.EOF || n == 0 {
				return nil
			}
			if err != nil {
				return err
			}
		}
	},
}

var mkdirCommand = &cobra.Command{
	Use:   "mkdir path",
	Short: "Create a guest directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newCore(ctx)
		if err != nil {
			return err
		}
		defer c.Shutdown(ctx)
		return c.VFS.Mkdir(ctx, c.Process.Getcwd(), args[0], 0o755)
	},
}

var lsCommand = &cobra.Command{
	Use:   "ls path",
	Short: "List a guest directory's entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newCore(ctx)
		if err != nil {
			return err
		}
		defer c.Shutdown(ctx)

		fd, err := c.VFS.Open(ctx, c.Process.Getcwd(), args[0], 0, 0)
		if err != nil {
			return err
		}
		defer c.VFS.FDTable().Close(ctx, fd)

		f, ok := c.VFS.FDTable().Get(fd)
		if !ok {
			return fmt.Errorf("flinuxgoctl: fd %d vanished after open", fd)
		}
		var offset int64
		for {
			entries, err := f.Getdents(ctx, offset)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return nil
			}
			for _, e := range entries {
				fmt.Println(e.Name)
				offset = e.Offset
			}
		}
	},
}

var pipeCommand = &cobra.Command{
	Use:   "pipe",
	Short: "Allocate a pipe, write a line through it, and print what comes back",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newCore(ctx)
		if err != nil {
			return err
		}
		defer c.Shutdown(ctx)

		r, w, err := c.Pipe(0)
		if err != nil {
			return err
		}
		wf, _ := c.VFS.FDTable().Get(w)
		rf, _ := c.VFS.FDTable().Get(r)

		if _, err := wf.Write(ctx, []byte("flinuxgoctl pipe roundtrip\n")); err != nil {
			return err
		}
		if err := c.VFS.FDTable().Close(ctx, w); err != nil {
			return err
		}

		buf := make([]byte, 256)
		n, err := rf.Read(ctx, buf)
		if err != nil && err != io.EOF {
			return err
		}
		os.Stdout.Write(buf[:n])
		return c.VFS.FDTable().Close(ctx, r)
	},
}

var devicesCommand = &cobra.Command{
	Use:   "devices",
	Short: "Open each synthetic /dev node and report how many bytes it read",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newCore(ctx)
		if err != nil {
			return err
		}
		defer c.Shutdown(ctx)

		for _, name := range []string{"/dev/null", "/dev/zero", "/dev/full", "/dev/random", "/dev/urandom"} {
			fd, err := c.VFS.Open(ctx, "/", name, 0, 0)
			if err != nil {
				fmt.Printf("%-14s open error: %v\n", name, err)
				continue
			}
			f, _ := c.VFS.FDTable().Get(fd)
			buf := make([]byte, 16)
			n, err := f.Read(ctx, buf)
			fmt.Printf("%-14s read %d bytes, err=%v\n", name, n, err)
			c.VFS.FDTable().Close(ctx, fd)
		}
		return nil
	},
}

var killCommand = &cobra.Command{
	Use:   "kill signo",
	Short: "Raise signo against this core's own pid (self-directed kill)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signo, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("flinuxgoctl: bad signo %q: %w", args[0], err)
		}
		ctx := context.Background()
		c, err := newCore(ctx)
		if err != nil {
			return err
		}
		defer c.Shutdown(ctx)

		if err := c.Signal.Kill(ctx, c.Signal.Pid(), signo, signal.SigInfo{Pid: int32(c.Signal.Pid())}); err != nil {
			return err
		}
		fmt.Printf("raised signal %d against pid %d\n", signo, c.Signal.Pid())
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
