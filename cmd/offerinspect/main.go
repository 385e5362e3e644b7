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

	"github.com/google/uuid"
	_ "go.uber.org/automaxprocs"

	"github.com/blinklabs-io/offerbroker/internal/config"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/logging"
	"github.com/blinklabs-io/offerbroker/internal/offer"
	"github.com/blinklabs-io/offerbroker/internal/puzzle"
	"github.com/blinklabs-io/offerbroker/internal/storage"
)

const programName = "offerinspect"

var cmdlineFlags struct {
	configFile string
	offerPath  string
	cache      bool
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to config file to load")
	flag.StringVar(&cmdlineFlags.offerPath, "offer", "", "path to an encoded offer file to inspect")
	flag.BoolVar(&cmdlineFlags.cache, "cache", false, "cache the decoded offer's bytes in storage")
	flag.Parse()

	if cmdlineFlags.offerPath == "" {
		fmt.Printf("ERROR: you must specify -offer\n")
		os.Exit(1)
	}

	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}
	if err := puzzle.LoadOverrides(cfg.Puzzle.NativePath, cfg.Puzzle.WrapperPath); err != nil {
		fmt.Printf("Failed to load puzzle overrides: %s\n", err)
		os.Exit(1)
	}
	logging.Configure(programName)
	logger := logging.GetLogger()

	requestID := uuid.New().String()
	logger = logger.With("request_id", requestID)

	data, err := os.ReadFile(cmdlineFlags.offerPath)
	if err != nil {
		fmt.Printf("ERROR: failed to read offer file: %s\n", err)
		os.Exit(1)
	}

	o, err := offer.FromBytes(data)
	if err != nil {
		fmt.Printf("ERROR: failed to decode offer: %s\n", err)
		os.Exit(1)
	}
	logger.Info("decoded offer", "bytes", len(data))

	offered, err := o.GetOfferedAmounts()
	if err != nil {
		fmt.Printf("ERROR: failed to compute offered amounts: %s\n", err)
		os.Exit(1)
	}
	requested, err := o.GetRequestedAmounts()
	if err != nil {
		fmt.Printf("ERROR: failed to compute requested amounts: %s\n", err)
		os.Exit(1)
	}
	arbitrage, err := o.Arbitrage()
	if err != nil {
		fmt.Printf("ERROR: failed to compute arbitrage: %s\n", err)
		os.Exit(1)
	}
	valid, err := o.IsValid()
	if err != nil {
		fmt.Printf("ERROR: failed to validate offer: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Offered:\n")
	for asset, amt := range offered {
		fmt.Printf("  %s: %d\n", asset, amt)
	}
	fmt.Printf("Requested:\n")
	for asset, amt := range requested {
		fmt.Printf("  %s: %d\n", asset, amt)
	}
	fmt.Printf("Arbitrage:\n")
	for asset, amt := range arbitrage {
		fmt.Printf("  %s: %d\n", asset, amt)
	}
	fmt.Printf("Valid: %t\n", valid)

	if cmdlineFlags.cache {
		s := storage.GetStorage()
		if err := s.Load(); err != nil {
			fmt.Printf("ERROR: failed to open storage: %s\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = s.Close()
		}()
		key := hashcore.SumSHA256(data).String()
		if err := s.PutOffer(key, data); err != nil {
			fmt.Printf("ERROR: failed to cache offer: %s\n", err)
			os.Exit(1)
		}
		logger.Info("cached offer", "key", key)
	}
}
