// SPDX-License-Identifier: MIT

// Command mgmatch runs multi-channel graph matching restarts on stored instances and
// generates planted test instances.
//
//	mgmatch generate --out inst --template-nodes 10 --world-nodes 40 --channels 2
//	mgmatch run --dir inst --runs 8 --workers 4 --plot trace.png --metrics-out metrics.txt
//
// Flags may also come from a --config file (YAML, JSON or TOML) or MGMATCH_* environment
// variables (MGMATCH_RUNS, MGMATCH_MAX_ITER, ...).
package main

import (
	"flag"
	"os"

	"github.com/plan-systems/klog"
)

func main() {
	fset := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	err := newRootCmd(fset).Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
