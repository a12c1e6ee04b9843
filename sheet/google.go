package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultGoogleURL is the address of published Google spreadsheets.
const DefaultGoogleURL = "https://docs.google.com/spreadsheets/d"

// Google is a Workbook published on Google Sheets ("anyone with the link").
// Worksheets are read with the visualization query endpoint.
type Google struct {
	ID      string       // spreadsheet id, as found in its URL
	BaseURL string       // defaults to DefaultGoogleURL
	Client  *http.Client // defaults to http.DefaultClient
}

// Read fetches the displayed values of worksheet.
//
// The endpoint answers a JavaScript call wrapping a JSON object:
//
//	/*O_o*/
//	google.visualization.Query.setResponse({"status":"ok","table":{"rows":[{"c":[{"v":"AAPL"},{"v":1000,"f":"1,000"},null]}]}});
//
// Formatted values ("f") are preferred to raw ones ("v") so that dates and
// numbers read the same as in a CSV export.
func (g *Google) Read(ctx context.Context, worksheet string) ([][]string, error) {
	base := g.BaseURL
	if base == "" {
		base = DefaultGoogleURL
	}
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	params := url.Values{}
	params.Set("tqx", "out:json")
	params.Set("headers", "0")
	params.Set("sheet", worksheet)
	addr := fmt.Sprintf("%s/%s/gviz/tq?%s", base, url.PathEscape(g.ID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot read worksheet %q: %w", worksheet, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot read worksheet %q: %v", worksheet, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read worksheet %q: %w", worksheet, err)
	}
	return parseGviz(worksheet, body)
}

// parseGviz extracts the cells of a visualization query response.
func parseGviz(worksheet string, body []byte) ([][]string, error) {
	start, end := bytes.IndexByte(body, '{'), bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("worksheet %q: unexpected response %.40q", worksheet, body)
	}
	var jobj any
	if err := json.Unmarshal(body[start:end+1], &jobj); err != nil {
		return nil, fmt.Errorf("worksheet %q: %w", worksheet, err)
	}

	if status, _ := jsonpath.Get("$.status", jobj); status != "ok" {
		msg, _ := jsonpath.Get("$.errors[0].detailed_message", jobj)
		return nil, fmt.Errorf("worksheet %q: query status %v: %v", worksheet, status, msg)
	}

	jrows, err := jsonpath.Get("$.table.rows[*].c", jobj)
	if err != nil {
		return nil, fmt.Errorf("worksheet %q: no rows: %w", worksheet, err)
	}
	list, _ := jrows.([]any)
	records := make([][]string, 0, len(list))
	for _, jrow := range list {
		cells, _ := jrow.([]any)
		record := make([]string, len(cells))
		for i, cell := range cells {
			record[i] = cellText(cell)
		}
		records = append(records, record)
	}
	return records, nil
}

// cellText returns the displayed text of a cell, "" for empty cells.
func cellText(cell any) string {
	c, ok := cell.(map[string]any)
	if !ok {
		return ""
	}
	if f, ok := c["f"].(string); ok {
		return f
	}
	switch v := c["v"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
