package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download media through the server",
	Long: `Ask the server to retrieve a media URL in the given format and save the
result locally.

Formats: mp4 (video), mp3 (audio), jpg and png (thumbnail).

Examples:
  justpaste download https://youtu.be/xyz --format mp4
  justpaste download https://youtu.be/xyz --format mp3 -o song.mp3`,
	Args: cobra.ExactArgs(1),
	RunE: runDownloadCmd,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringP("format", "f", "mp4", "Output format: mp4, mp3, jpg, png")
	downloadCmd.Flags().StringP("quality", "q", "", "Requested quality (recorded in history)")
	downloadCmd.Flags().StringP("output", "o", "", "Output file (default: name suggested by the server)")
}

type downloadResult struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

func runDownloadCmd(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	quality, _ := cmd.Flags().GetString("quality")
	output, _ := cmd.Flags().GetString("output")

	dir := "."
	if output != "" {
		dir = filepath.Dir(output)
	}
	tmp, err := os.CreateTemp(dir, ".justpaste-*.part")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	// Removed unless renamed into place below.
	defer func() { _ = os.Remove(tmp.Name()) }()

	client := NewClient(serverURL)
	name, n, err := client.Download(args[0], format, quality, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("write output: %w", closeErr)
	}
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	dest := output
	if dest == "" {
		if name == "" {
			name = "JustPaste." + format
		}
		dest = filepath.Join(dir, filepath.Base(name))
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("save output: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), downloadResult{Path: dest, Bytes: n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", dest, n)
	return nil
}
