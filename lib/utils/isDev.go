package utils

import "os"

func IsDevModeEnabled() bool {
	env := os.Getenv("WEBPROTEGE_ENV")
	return env == "development" || env == "dev"
}
