// Command pfrscan scrapes the Pro Football Reference season passing
// table and writes it as CSV, for spot-checking loaded passing stats
// against an independent source.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func main() {
	season := flag.Int("season", time.Now().UTC().Year(), "season year to scrape")
	output := flag.String("output", "nfl_player_stats.csv", "CSV output path")
	flag.Parse()

	log := logrus.WithField("component", "pfrscan")

	frame, err := fetchPassingTable(*season)
	if err != nil {
		log.WithError(err).Error("scrape failed")
		os.Exit(1)
	}

	file, err := os.Create(*output)
	if err != nil {
		log.WithError(err).Error("creating output file")
		os.Exit(1)
	}
	defer file.Close()

	if err := dataframe.WriteCSV(file, frame); err != nil {
		log.WithError(err).Error("writing output file")
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows to %s\n", frame.Len(), *output)
}

func fetchPassingTable(season int) (*dataframe.Frame, error) {
	url := fmt.Sprintf("https://www.pro-football-reference.com/years/%d/passing.htm", season)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	table := doc.Find("table#passing").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("could not locate passing table on the page")
	}

	var columns []string
	table.Find("thead tr").Last().Find("th").Each(func(_ int, cell *goquery.Selection) {
		name := strings.ReplaceAll(strings.TrimSpace(cell.Text()), " ", "_")
		columns = append(columns, name)
	})

	frame := dataframe.New(columns...)
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		// PFR repeats the header row mid-table.
		if tr.HasClass("thead") {
			return
		}
		row := dataframe.Row{}
		tr.Find("th, td").Each(func(i int, cell *goquery.Selection) {
			if i >= len(columns) {
				return
			}
			text := strings.TrimSpace(cell.Text())
			if text == "" {
				row[columns[i]] = nil
			} else {
				row[columns[i]] = text
			}
		})
		if row.String("Player") == "" {
			return
		}
		frame.Append(row)
	})

	return frame, nil
}
