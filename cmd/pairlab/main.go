// Command pairlab plans, simulates and analyses multi-arrangement
// similarity experiments on tactile stimuli.
//
//	pairlab stimuli                      # list the configured stimulus grid
//	pairlab trials --seed 42             # pair-covering trial plan
//	pairlab seeds --out seeds.json       # trajectory seed table
//	pairlab simulate --participants 5    # synthetic result files
//	pairlab analyze results/             # RDM, MDS and clustering
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
