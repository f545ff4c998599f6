package blacklist

import (
	"context"
	"fmt"
	"os"

	"mpin_backend/platform/apperr"
	"mpin_backend/platform/config"
	"mpin_backend/platform/logger"
)

// ObjectFetcher reads a whole object from object storage.
type ObjectFetcher interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// LoadFile parses a blacklist document from disk.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blacklist file: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Load resolves the configured source and returns the parsed set. fetcher is
// only consulted for the minio source and may be nil otherwise. A failed
// fetch is reported as an apperr.KindUnavailable error.
func Load(ctx context.Context, cfg config.BlacklistConfig, fetcher ObjectFetcher, log *logger.Logger) (*Set, error) {
	var (
		set    *Set
		err    error
		source = cfg.GetBlacklistSource()
	)

	switch source {
	case config.BlacklistSourceEmbedded, "":
		source = config.BlacklistSourceEmbedded
		set = Default()
	case config.BlacklistSourceFile:
		set, err = LoadFile(cfg.GetBlacklistPath())
	case config.BlacklistSourceMinIO:
		if fetcher == nil {
			return nil, fmt.Errorf("blacklist source %q requires an object store", source)
		}
		var data []byte
		data, err = fetcher.ReadObject(ctx, cfg.GetBlacklistBucket(), cfg.GetBlacklistObject())
		if err != nil {
			err = apperr.Unavailable("blacklist object store unreachable: "+err.Error(), err)
		} else {
			set, err = Parse(data)
		}
	default:
		return nil, fmt.Errorf("unknown blacklist source %q", source)
	}
	if err != nil {
		return nil, fmt.Errorf("load blacklist from %s: %w", source, err)
	}

	if log != nil {
		log.BlacklistLoaded(source, set.Version(), set.Len(4), set.Len(6))
	}
	return set, nil
}
