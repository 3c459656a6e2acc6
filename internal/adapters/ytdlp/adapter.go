// Package ytdlp provides the extraction engine backed by the yt-dlp binary.
package ytdlp

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lrstanley/go-ytdlp"

	"github.com/vmunix/justpaste/internal/download"
)

// Engine runs yt-dlp once per Extract call.
type Engine struct {
	executable string
	logger     *slog.Logger
}

// New creates a yt-dlp engine. An empty executable lets go-ytdlp resolve
// the binary from PATH or its own cache.
func New(executable string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		executable: executable,
		logger:     logger,
	}
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return "yt-dlp"
}

// Install downloads a yt-dlp binary into go-ytdlp's cache if none is usable
// and returns the path to the executable.
func Install(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("install yt-dlp: %w", err)
	}
	return resolved.Executable, nil
}

// Extract runs yt-dlp against url with the given configuration.
func (e *Engine) Extract(ctx context.Context, url string, cfg *download.ExtractionConfig) error {
	cmd, err := e.command(cfg)
	if err != nil {
		return err
	}

	e.logger.Debug("running yt-dlp", "url", url, "output", cfg.OutputTemplate)
	if _, err := cmd.Run(ctx, url); err != nil {
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return nil
}

// command translates an ExtractionConfig into a yt-dlp invocation.
func (e *Engine) command(cfg *download.ExtractionConfig) (*ytdlp.Command, error) {
	cmd := ytdlp.New().
		Output(cfg.OutputTemplate).
		NoPlaylist().
		Quiet().
		NoWarnings()

	if e.executable != "" {
		cmd.SetExecutable(e.executable)
	}

	net := cfg.Network
	if net.UserAgent != "" {
		cmd.AddHeaders("User-Agent:" + net.UserAgent)
	}
	if !net.CertificateValidation {
		cmd.NoCheckCertificates()
	}
	if net.Retries > 0 {
		cmd.Retries(strconv.Itoa(net.Retries))
	}
	if net.ConcurrentFragments > 0 {
		cmd.ConcurrentFragments(net.ConcurrentFragments)
	}

	if cfg.FormatSelector != "" {
		cmd.Format(cfg.FormatSelector)
	}
	if cfg.MergeOutputFormat != "" {
		cmd.MergeOutputFormat(cfg.MergeOutputFormat)
	}
	if cfg.SkipDownload {
		cmd.SkipDownload()
	}
	if cfg.WriteThumbnail {
		cmd.WriteThumbnail()
	}

	for _, pp := range cfg.PostProcessors {
		switch pp.Kind {
		case download.PostProcessExtractAudio:
			cmd.ExtractAudio().AudioFormat(pp.Params["preferredcodec"])
			if q := pp.Params["preferredquality"]; q != "" {
				// A bare number is a bitrate in kbps.
				cmd.AudioQuality(q + "K")
			}
		case download.PostProcessConvertThumbnail:
			cmd.ConvertThumbnails(pp.Params["format"])
		default:
			return nil, fmt.Errorf("yt-dlp: unsupported post-processor %q", pp.Kind)
		}
	}

	return cmd, nil
}
