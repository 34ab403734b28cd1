// Command transmemctl is a small operator tool over a transformation
// memory. It talks to *transmem.Memory only through its exported
// methods, never its internals.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mbonani/transmem"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	horizon time.Duration

	rootCmd = &cobra.Command{
		Use:   "transmemctl",
		Short: "Exercise a transformation memory from the command line",
	}

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Build a small frame chain and query the composed transform",
		RunE:  runDemo,
	}

	dumpCmd = &cobra.Command{
		Use:   "demo-dump",
		Short: "Build the same demo chain and print its Graphviz DOT rendering",
		RunE:  runDemoDump,
	}
)

func init() {
	rootCmd.PersistentFlags().DurationVar(&horizon, "horizon", 2*time.Second, "storage horizon for every edge")
	rootCmd.AddCommand(demoCmd, dumpCmd)
}

func demoMemory() *transmem.Memory {
	mem := transmem.New(horizon)
	now := time.Now()
	identity := transmem.Quaternion{Real: 1}

	mem.Connect("odom", "base_link", now, identity, transmem.Vec3{X: 1})
	mem.Connect("base_link", "camera", now, identity, transmem.Vec3{Z: 0.2})
	return mem
}

func runDemo(cmd *cobra.Command, args []string) error {
	mem := demoMemory()
	xf, err := mem.TransformAt("odom", "camera", time.Now())
	if err != nil {
		return fmt.Errorf("transform-at: %w", err)
	}
	fmt.Printf("odom -> camera: rot=%v trans=%v\n", xf.Rot, xf.Trans)
	return nil
}

func runDemoDump(cmd *cobra.Command, args []string) error {
	mem := demoMemory()
	return mem.DumpDOT(os.Stdout)
}
