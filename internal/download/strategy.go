package download

// DefaultUserAgent is sent to upstream sources to avoid trivial bot blocking.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/94.0.4606.81 Safari/537.36"

// Post-processor kinds understood by the extraction engine.
const (
	PostProcessExtractAudio     = "FFmpegExtractAudio"
	PostProcessConvertThumbnail = "FFmpegThumbnailsConvertor"
)

// Format selectors.
const (
	SelectorBestVideo = "bestvideo+bestaudio/best"
	SelectorBestAudio = "bestaudio/best"
)

// PostProcessor is a transformation the engine applies after retrieval.
type PostProcessor struct {
	Kind   string
	Params map[string]string
}

// NetworkOptions are handed to the engine for its own network-level behavior.
type NetworkOptions struct {
	UserAgent             string
	CertificateValidation bool
	Retries               int // engine-internal retries, distinct from Invoker attempts
	ConcurrentFragments   int // 0 leaves the engine default
}

// ExtractionConfig is everything the engine needs for one job.
// It is built once by SelectConfig and not modified afterwards.
type ExtractionConfig struct {
	FormatSelector    string
	OutputTemplate    string
	MergeOutputFormat string
	SkipDownload      bool
	WriteThumbnail    bool
	PostProcessors    []PostProcessor
	Network           NetworkOptions
}

// StrategyOptions are the process-wide knobs SelectConfig draws from.
type StrategyOptions struct {
	UserAgent           string
	EngineRetries       int
	ConcurrentFragments int
	AudioQuality        string // kbps
}

// DefaultStrategyOptions returns the stock strategy settings.
func DefaultStrategyOptions() StrategyOptions {
	return StrategyOptions{
		UserAgent:           DefaultUserAgent,
		EngineRetries:       2,
		ConcurrentFragments: 5,
		AudioQuality:        "192",
	}
}

// SelectConfig maps a requested format to an extraction configuration.
// It performs no I/O.
func SelectConfig(f Format, outputTemplate string, opts StrategyOptions) (*ExtractionConfig, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.AudioQuality == "" {
		opts.AudioQuality = "192"
	}
	cfg := &ExtractionConfig{
		OutputTemplate: outputTemplate,
		Network: NetworkOptions{
			UserAgent:             opts.UserAgent,
			CertificateValidation: false,
			Retries:               opts.EngineRetries,
		},
	}

	switch f.Kind() {
	case KindVideo:
		cfg.FormatSelector = SelectorBestVideo
		cfg.MergeOutputFormat = string(FormatMP4)
		cfg.Network.ConcurrentFragments = opts.ConcurrentFragments
	case KindAudio:
		cfg.FormatSelector = SelectorBestAudio
		cfg.PostProcessors = []PostProcessor{{
			Kind: PostProcessExtractAudio,
			Params: map[string]string{
				"preferredcodec":   f.Ext(),
				"preferredquality": opts.AudioQuality,
			},
		}}
	case KindImage:
		cfg.SkipDownload = true
		cfg.WriteThumbnail = true
		cfg.PostProcessors = []PostProcessor{{
			Kind:   PostProcessConvertThumbnail,
			Params: map[string]string{"format": f.Ext()},
		}}
	default:
		return nil, &UnsupportedFormatError{Format: string(f), Suggestion: suggestFormat(string(f))}
	}

	return cfg, nil
}
