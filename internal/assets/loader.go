package assets

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"journalgrader/internal/logger"
)

const rosterNameColumn = "name"

// ErrNoBanner is returned when no banner image is configured or stored.
var ErrNoBanner = errors.New("banner image unavailable")

type Image struct {
	Data        []byte
	ContentType string
}

// Loader serves the roster and banner. Successful loads are kept for the
// life of the process; failures are retried on the next call.
type Loader struct {
	source    Source
	rosterKey string
	bannerKey string
	log       *logger.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	roster []string
	banner *Image
}

// NewLoader wraps source. A nil source yields an empty roster and no banner.
func NewLoader(source Source, rosterKey, bannerKey string, log *logger.Logger) *Loader {
	return &Loader{
		source:    source,
		rosterKey: rosterKey,
		bannerKey: bannerKey,
		log:       log.With("service", "AssetLoader"),
	}
}

// ListNames returns the roster names in file order.
func (l *Loader) ListNames(ctx context.Context) ([]string, error) {
	if l.source == nil {
		return nil, nil
	}
	l.mu.RLock()
	cached := l.roster
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	// The shared load outlives any single caller's request.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := l.group.Do("roster", func() (interface{}, error) {
		data, err := l.source.ReadObject(loadCtx, l.rosterKey)
		if err != nil {
			return nil, fmt.Errorf("load roster: %w", err)
		}
		names, err := ParseRoster(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse roster %s: %w", l.rosterKey, err)
		}
		l.mu.Lock()
		l.roster = names
		l.mu.Unlock()
		l.log.Info("Roster loaded", "key", l.rosterKey, "names", len(names))
		return names, nil
	})
	if err != nil {
		l.log.Warn("Roster unavailable", "key", l.rosterKey, "error", err)
		return nil, err
	}
	return v.([]string), nil
}

// BannerImage returns the banner bytes and their sniffed content type.
func (l *Loader) BannerImage(ctx context.Context) (Image, error) {
	if l.source == nil || l.bannerKey == "" {
		return Image{}, ErrNoBanner
	}
	l.mu.RLock()
	cached := l.banner
	l.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := l.group.Do("banner", func() (interface{}, error) {
		data, err := l.source.ReadObject(loadCtx, l.bannerKey)
		if err != nil {
			if errors.Is(err, ErrObjectNotFound) {
				return nil, fmt.Errorf("%w: %v", ErrNoBanner, err)
			}
			return nil, fmt.Errorf("load banner: %w", err)
		}
		img := &Image{Data: data, ContentType: http.DetectContentType(data)}
		l.mu.Lock()
		l.banner = img
		l.mu.Unlock()
		l.log.Info("Banner loaded", "key", l.bannerKey, "bytes", len(data), "content_type", img.ContentType)
		return img, nil
	})
	if err != nil {
		l.log.Warn("Banner unavailable", "key", l.bannerKey, "error", err)
		return Image{}, err
	}
	return *v.(*Image), nil
}

// ParseRoster reads CSV with a header row and returns the non-blank values of
// the "Name" column. Header matching ignores case and surrounding space.
func ParseRoster(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("roster is empty")
		}
		return nil, err
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), rosterNameColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.New(`roster has no "Name" column`)
	}

	names := []string{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if col >= len(record) {
			continue
		}
		if name := strings.TrimSpace(record[col]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
