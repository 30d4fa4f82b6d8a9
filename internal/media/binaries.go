package media

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrBinaryNotFound is returned when ffmpeg or ffprobe cannot be located.
var ErrBinaryNotFound = errors.New("ffmpeg binary not found")

type Binaries struct {
	FFmpeg  string
	FFprobe string
}

var lookPath = exec.LookPath

// ResolveBinaries prefers the configured paths and falls back to PATH.
// Configured paths must point at existing files.
func ResolveBinaries(ffmpegPath, ffprobePath string) (Binaries, error) {
	ffmpeg, err := resolveBinary("ffmpeg", ffmpegPath)
	if err != nil {
		return Binaries{}, err
	}
	ffprobe, err := resolveBinary("ffprobe", ffprobePath)
	if err != nil {
		return Binaries{}, err
	}
	return Binaries{FFmpeg: ffmpeg, FFprobe: ffprobe}, nil
}

func resolveBinary(name, configured string) (string, error) {
	if configured != "" {
		if !fileExists(configured) {
			return "", fmt.Errorf("%w: %s not found at %s", ErrBinaryNotFound, name, configured)
		}
		return configured, nil
	}

	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not on PATH, install it or set its path in the config", ErrBinaryNotFound, name)
	}
	return found, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
