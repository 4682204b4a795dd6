package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"tabscribe/constants"
	"tabscribe/file"
	"tabscribe/model"
)

var videoIDRegex = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

var ErrInvalidURL = errors.New("invalid YouTube URL")

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL.
func ExtractVideoID(url string) (string, error) {
	m := videoIDRegex.FindStringSubmatch(url)
	if m == nil {
		return "", ErrInvalidURL
	}
	return m[1], nil
}

// Fetch downloads the audio track of a YouTube video and converts it to a
// mono wav under the cache dir. Downloads are cached by video ID, so repeated
// requests for the same video skip yt-dlp entirely.
func Fetch(ctx context.Context, url string) (wavPath string, videoID string, err error) {
	videoID, err = ExtractVideoID(url)
	if err != nil {
		return "", "", err
	}

	cacheDir := constants.GetCacheDir()
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", "", err
	}

	wavPath = filepath.Join(cacheDir, videoID+".wav")
	if _, err := os.Stat(wavPath); err == nil {
		return wavPath, videoID, nil
	}

	out := filepath.Join(cacheDir, videoID+".%(ext)s")
	cmd := exec.CommandContext(
		ctx,
		"yt-dlp",
		"-x",
		"--audio-format", "mp3",
		"-o", out,
		"--print", "after_move:filepath",
		"--no-warnings",
		url,
	)
	output, err := cmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("yt-dlp failed for %v: %v", videoID, err)
	}
	downloaded := strings.TrimSpace(string(output))

	wavPath, err = ConvertToWAV(ctx, downloaded)
	if err != nil {
		return "", "", err
	}
	return wavPath, videoID, nil
}

// ConvertToWAV transcodes any ffmpeg-readable audio file to mono 16-bit PCM
// at the default rate, next to the input. The conversion goes through a temp
// file so a killed ffmpeg never leaves a truncated wav behind. Non-wav inputs
// are removed after a successful conversion.
func ConvertToWAV(ctx context.Context, inputPath string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("input file does not exist: %v", err)
	}

	if filepath.Ext(inputPath) != ".wav" {
		defer os.Remove(inputPath)
	}

	outputPath := file.WithExt(inputPath, ".wav")
	tmpPath := file.TempName(filepath.Dir(outputPath), ".wav")
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",
		"-i", inputPath,
		"-c", "pcm_s16le",
		"-ar", fmt.Sprint(constants.DefaultSampleRate),
		"-ac", "1",
		tmpPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg failed: %v, output %v", err, string(output))
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", fmt.Errorf("could not move converted file into place: %v", err)
	}
	return outputPath, nil
}

// FetchInfo looks up the video title without downloading it and derives the
// artist from the common "Artist - Title" naming. Lookups never fail the
// transcription; on any error the metadata falls back to placeholders.
func FetchInfo(ctx context.Context, videoID string) model.SongDetails {
	details := model.SongDetails{
		Title:   "Unknown Song",
		Artist:  "Unknown Artist",
		VideoID: videoID,
	}

	cmd := exec.CommandContext(
		ctx,
		"yt-dlp",
		"--print", "title",
		"--skip-download",
		"--no-warnings",
		"https://www.youtube.com/watch?v="+videoID,
	)
	output, err := cmd.Output()
	if err != nil {
		return details
	}

	title := strings.TrimSpace(string(output))
	if title == "" {
		return details
	}

	if artist, rest, found := strings.Cut(title, " - "); found {
		details.Artist = strings.TrimSpace(artist)
		details.Title = strings.TrimSpace(rest)
	} else {
		details.Title = title
	}
	return details
}
