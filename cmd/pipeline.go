package main

import (
	"github.com/sells-group/polygon-cli/internal/config"
	"github.com/sells-group/polygon-cli/internal/extract"
	"github.com/sells-group/polygon-cli/internal/fetcher"
	"github.com/sells-group/polygon-cli/internal/polygon"
)

// newProcessor builds a Processor whose date stamps follow the configured
// timezone.
func newProcessor(c config.ProcessConfig) (*extract.Processor, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	clock := polygon.Clock(polygon.SystemClock).InLocation(loc)
	return extract.NewProcessor(extract.NewExtractor(clock)), nil
}

// newOpener builds an Opener for local paths and HTTP(S)/FTP URLs.
func newOpener(c config.FetchConfig) *fetcher.Opener {
	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.UserAgent,
		Timeout:    c.Timeout(),
		MaxRetries: c.MaxRetries,
	})
	ftpFetcher := fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: c.Timeout()})
	return fetcher.NewOpener(httpFetcher, ftpFetcher)
}
