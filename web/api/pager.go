package api

import (
	"context"
	"errors"
	"strconv"
)

// ErrPageNotAdvancing is returned when the server answers a cursor with
// entries that are not older than the cursor.
var ErrPageNotAdvancing = errors.New("signing log page did not advance past the cursor")

// Pager walks the signing log from newest to oldest, one page per call.
type Pager struct {
	client *SigningLogClient
	cursor string
	done   bool
}

// NewPager creates a pager starting at the first page.
func NewPager(client *SigningLogClient) *Pager {
	return &Pager{client: client}
}

// From makes the pager start below the given cursor instead of at the newest entry.
func (p *Pager) From(fromID string) *Pager {
	p.cursor = fromID
	return p
}

// Next returns the next page. It returns a nil slice once the log is exhausted,
// and ErrPageNotAdvancing when a page holds nothing older than the cursor.
func (p *Pager) Next(ctx context.Context) ([]SigningLog, error) {
	if p.done {
		return nil, nil
	}

	resp, err := p.client.List(ctx, p.cursor)
	if err != nil {
		return nil, err
	}
	logs, err := DecodeSigningLogs(resp)
	if err != nil {
		return nil, err
	}

	if len(logs) == 0 {
		p.done = true
		return nil, nil
	}

	lowest := logs[0].ID
	for _, l := range logs[1:] {
		if l.ID < lowest {
			lowest = l.ID
		}
	}
	if current, err := strconv.Atoi(p.cursor); err == nil && current > 0 && lowest >= current {
		p.done = true
		return nil, ErrPageNotAdvancing
	}
	p.cursor = CursorFromID(lowest)
	if p.cursor == "" {
		p.done = true
	}
	return logs, nil
}

// All collects every remaining entry.
func (p *Pager) All(ctx context.Context) ([]SigningLog, error) {
	var all []SigningLog
	for {
		page, err := p.Next(ctx)
		if err != nil {
			return all, err
		}
		if page == nil {
			return all, nil
		}
		all = append(all, page...)
	}
}
