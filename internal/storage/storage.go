// Copyright 2023 Blink Labs Software
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

// Package storage provides a small Badger-backed cache for built or
// decoded offers. It is demo/test tooling for the cmd/ binaries, not
// part of the offer core: the core never reads or writes storage.
package storage

import (
	"fmt"

	"github.com/blinklabs-io/offerbroker/internal/config"
	"github.com/blinklabs-io/offerbroker/internal/logging"

	"github.com/dgraph-io/badger/v4"
)

const offerKeyPrefix = "offer_"

type Storage struct {
	db *badger.DB
}

var globalStorage = &Storage{}

func (s *Storage) Load() error {
	cfg := config.GetConfig()
	badgerOpts := badger.DefaultOptions(cfg.Storage.Directory).
		WithLogger(NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutOffer caches the encoded bytes of a built or decoded offer under key.
func (s *Storage) PutOffer(key string, offerBytes []byte) error {
	logger := logging.GetLogger()
	logger.Debug("caching offer", "key", key, "bytes", len(offerBytes))
	offerKey := offerKeyPrefix + key
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(offerKey), offerBytes)
	})
}

// GetOffer retrieves the cached bytes for key, or (nil, nil) if absent.
func (s *Storage) GetOffer(key string) ([]byte, error) {
	var ret []byte
	offerKey := offerKeyPrefix + key
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(offerKey))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			ret = append([]byte{}, v...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached offer %q: %w", key, err)
	}
	return ret, nil
}

func GetStorage() *Storage {
	return globalStorage
}

// BadgerLogger adapts our slog-based logger to Badger's expected Logger
// interface (Errorf/Warningf/Infof/Debugf).
type BadgerLogger struct{}

func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{}
}

func (b *BadgerLogger) Errorf(msg string, args ...any) {
	logging.GetLogger().Error(fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	logging.GetLogger().Warn(fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Infof(msg string, args ...any) {
	logging.GetLogger().Info(fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Debugf(msg string, args ...any) {
	logging.GetLogger().Debug(fmt.Sprintf(msg, args...))
}
