package config

import (
	"context"
	"os"

	"github.com/knadh/koanf/providers/file"
)

// Watch reloads the configuration whenever the file named by SYNTHORBIT_CONFIG
// changes and hands the result to onChange. It is a no-op without a config file.
// Watching stops when ctx is done.
func Watch(ctx context.Context, onChange func(*Config, error)) error {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		return nil
	}

	fp := file.Provider(path)
	err := fp.Watch(func(_ interface{}, err error) {
		if err != nil {
			onChange(nil, loadFailed("watch", err))
			return
		}
		onChange(Load(ctx))
	})
	if err != nil {
		return loadFailed("watch", err)
	}

	go func() {
		<-ctx.Done()
		_ = fp.Unwatch()
	}()
	return nil
}
