// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/blinklabs-io/offerbroker/internal/config"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/puzzle"
)

var cmdlineFlags struct {
	configFile string
	tail       string
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to config file to load")
	flag.StringVar(&cmdlineFlags.tail, "tail", "", "hex-encoded asset tail hash; omit for the native settlement address")
	flag.Parse()

	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("ERROR: failed to load config: %s\n", err)
		os.Exit(1)
	}
	if err := puzzle.LoadOverrides(cfg.Puzzle.NativePath, cfg.Puzzle.WrapperPath); err != nil {
		fmt.Printf("ERROR: failed to load puzzle overrides: %s\n", err)
		os.Exit(1)
	}

	var tail hashcore.Hash
	if cmdlineFlags.tail != "" {
		var err error
		tail, err = hashcore.FromHex(cmdlineFlags.tail)
		if err != nil {
			fmt.Printf("ERROR: malformed tail hash: %s\n", err)
			os.Exit(1)
		}
	}

	settlementHash := puzzle.SettlementPuzzleHash(tail)

	if tail.IsZero() {
		fmt.Printf("Native settlement puzzle hash:    %s\n", settlementHash)
	} else {
		fmt.Printf("Asset tail:                        %s\n", tail)
		fmt.Printf("Tokenized settlement puzzle hash:  %s\n", settlementHash)
	}
}
