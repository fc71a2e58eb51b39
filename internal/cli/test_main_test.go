package cli

import (
	"fmt"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	tempHome, err := os.MkdirTemp("", "msgsync-home-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp HOME: %v\n", err)
		os.Exit(1)
	}

	restore := make(map[string]*string)
	for _, key := range []string{"HOME", "MSGSYNC_HOME"} {
		if v, ok := os.LookupEnv(key); ok {
			restore[key] = &v
		} else {
			restore[key] = nil
		}
		if err := os.Setenv(key, tempHome); err != nil {
			fmt.Fprintf(os.Stderr, "failed to set %s: %v\n", key, err)
			_ = os.RemoveAll(tempHome)
			os.Exit(1)
		}
	}

	code := m.Run()

	for key, v := range restore {
		if v != nil {
			_ = os.Setenv(key, *v)
		} else {
			_ = os.Unsetenv(key)
		}
	}
	_ = os.RemoveAll(tempHome)

	os.Exit(code)
}
