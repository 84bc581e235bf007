package timeouts

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Ping() != DefaultPing {
		t.Errorf("Ping() = %v, want %v", Ping(), DefaultPing)
	}
	if Short() != DefaultShort {
		t.Errorf("Short() = %v, want %v", Short(), DefaultShort)
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want %v", Medium(), DefaultMedium)
	}
	if Long() != DefaultLong {
		t.Errorf("Long() = %v, want %v", Long(), DefaultLong)
	}
}

func TestConfigure(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Short: 9 * time.Second})

	if Short() != 9*time.Second {
		t.Errorf("Short() = %v, want 9s", Short())
	}
	// Zero values leave other timeouts untouched.
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", Medium(), DefaultMedium)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("TIMEOUT_SHORT", "7s")
	t.Setenv("TIMEOUT_MEDIUM", "not-a-duration")

	n := ConfigureFromEnv()
	if n != 1 {
		t.Errorf("ConfigureFromEnv() = %d, want 1", n)
	}
	if Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default after invalid env", Medium())
	}
}
