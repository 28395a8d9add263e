/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/dartsleague/internal"
	"golang.org/x/sync/errgroup"
)

// ParseRosterDoc extracts players from the rows of table#members. Columns
// are name, then optional nickname and email. Rows without a name are
// skipped.
func ParseRosterDoc(doc *goquery.Document) []Player {
	var ret []Player
	doc.Find("table#members tbody tr").Each(func(_ int, s *goquery.Selection) {
		cells := s.Find("td")
		if cells.Length() < 1 {
			return
		}
		name := internal.NormalizeName(cells.Eq(0).Text())
		if name == "" {
			return
		}
		p := NewPlayer(name)
		if cells.Length() > 1 {
			p.Nickname = internal.NormalizeName(cells.Eq(1).Text())
		}
		if cells.Length() > 2 {
			p.Email = strings.TrimSpace(cells.Eq(2).Text())
		}
		ret = append(ret, p)
	})

	return ret
}

// FetchRoster downloads and parses one roster page.
func FetchRoster(ctx context.Context, client *http.Client,
	url string) ([]Player, error) {

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to parse roster %s: %w", url, err)
	}

	return ParseRosterDoc(doc), nil
}

// FetchRosters downloads several roster pages concurrently and returns their
// players in url order.
func FetchRosters(ctx context.Context, client *http.Client,
	urls []string) ([]Player, error) {

	pages := make([][]Player, len(urls))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			players, err := FetchRoster(gctx, client, url)
			if err != nil {
				return fmt.Errorf("error fetching roster %v: %w", url, err)
			}
			mu.Lock()
			pages[i] = players
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ret []Player
	for _, page := range pages {
		ret = append(ret, page...)
	}
	return ret, nil
}

// MergeRoster appends imported players whose names are not already on the
// roster. It returns the merged roster and how many players were added.
func MergeRoster(roster []Player, imported []Player) ([]Player, int) {
	ret := append([]Player(nil), roster...)
	known := make(map[string]bool, len(roster))
	for _, p := range roster {
		known[strings.ToLower(p.Name)] = true
	}
	added := 0
	for _, p := range imported {
		key := strings.ToLower(p.Name)
		if known[key] {
			log.Printf("league.import: skipping duplicate player %v", p.Name)
			continue
		}
		known[key] = true
		ret = append(ret, p)
		added++
	}
	return ret, added
}
