// package formatter provides functions to export festival match results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/festmatch/internal/match"
)

// MatchExport bundles a ranked festival list with the context it was
// computed under, for export.
type MatchExport struct {
	Region    string
	Year      int
	Artists   []string
	Festivals []match.FestivalMatch
}

// ExportToCSV converts a MatchExport to CSV format with columns: ID, Name, Country, Location, Dates, Match %, Matched Artists, Artists In Common
func ExportToCSV(export *MatchExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Country", "Location", "Dates", "Match %", "Matched Artists", "Artists In Common"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, festival := range export.Festivals {
		record := []string{
			festival.ID,
			festival.Name,
			festival.Country,
			festival.Location,
			festival.Dates,
			strconv.Itoa(festival.MatchPercentage),
			strconv.Itoa(festival.MatchedArtists),
			strings.Join(festival.ArtistsInCommon, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a MatchExport to Markdown format
func ExportToMarkdown(export *MatchExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Festival Matches: %s %d\n\n", export.Region, export.Year))
	buf.WriteString(fmt.Sprintf("**Artists**: %d\n", len(export.Artists)))
	buf.WriteString(fmt.Sprintf("**Festivals**: %d\n\n", len(export.Festivals)))

	buf.WriteString("## Ranking\n\n")
	for i, festival := range export.Festivals {
		location := festival.Location
		if festival.Country != "" {
			location = fmt.Sprintf("%s, %s", festival.Location, festival.Country)
		}
		buf.WriteString(fmt.Sprintf("%d. **%s** (%s) %d%% [%s]\n",
			i+1, festival.Name, location, festival.MatchPercentage, festival.Dates))
		if len(festival.ArtistsInCommon) > 0 {
			buf.WriteString(fmt.Sprintf("   - In common: %s\n", strings.Join(festival.ArtistsInCommon, ", ")))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a MatchExport to plain text format
func ExportToText(export *MatchExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Festival matches: %s %d\n", export.Region, export.Year))
	buf.WriteString(fmt.Sprintf("Artists: %d\n\n", len(export.Artists)))

	for i, festival := range export.Festivals {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) %d%%\n",
			i+1, festival.Name, festival.Country, festival.MatchPercentage))
	}

	return buf.Bytes(), nil
}

// WriteCSVExport writes a MatchExport to a CSV file.
//
// Defaults to {region}_matches.csv as the filename.
func WriteCSVExport(export *MatchExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_matches.csv", export.Region)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteMarkdownExport writes a MatchExport to a Markdown file.
//
// Defaults to {region}_matches.md as the filename.
func WriteMarkdownExport(export *MatchExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_matches.md", export.Region)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes a MatchExport to a plain text file.
//
// Defaults to {region}_matches.txt as the filename.
func WriteTextExport(export *MatchExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_matches.txt", export.Region)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
