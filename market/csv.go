package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"
)

// LoadStats counts rows the loader could not use. Bad lines never abort
// a file; they are counted so a run can report them.
type LoadStats struct {
	BadLines   int
	Duplicates int
}

// Daily dump column order used by the data files:
//
//	date,code,open,close,high,low,volume,amount[,amplitude,chg_pct,chg_amt,turnover]
//
// Files exported with an English header (Date,Open,High,Low,Close,Volume[,Amount])
// are mapped by name instead.
const (
	dumpDate = iota
	dumpCode
	dumpOpen
	dumpClose
	dumpHigh
	dumpLow
	dumpVolume
	dumpAmount
	dumpMinFields = dumpVolume + 1
)

// LoadFile reads one instrument's daily bars from a CSV file. Files
// ending in .xz are decompressed on the fly. The instrument code is
// taken from the file name. Bars are sorted ascending and duplicate
// dates are dropped keep-first, mirroring the dense-grid ingest policy.
func LoadFile(path string) (*Series, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer f.Close()

	var r io.Reader = f
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("open xz %s: %w", path, err)
		}
		r = xr
		base = strings.TrimSuffix(base, ".xz")
	}

	bars, stats, err := parseBars(r)
	if err != nil {
		return nil, stats, fmt.Errorf("parse %s: %w", path, err)
	}

	s := &Series{
		Instrument: strings.TrimSuffix(base, ".csv"),
		Bars:       bars,
	}
	s.Sort()
	stats.Duplicates += dedupe(s)
	return s, stats, nil
}

// LoadDir loads every per-instrument CSV in dir (plain or .xz). Zip
// archives of daily dumps are extracted into a temp dir and scanned the
// same way. Unreadable files are skipped and reported in the error-free
// skipped list; the caller decides whether to log them.
func LoadDir(dir string) (series []*Series, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".csv"), strings.HasSuffix(name, ".csv.xz"):
			paths = append(paths, filepath.Join(dir, name))
		case strings.HasSuffix(name, ".zip"):
			tmp, terr := os.MkdirTemp("", "bars-*")
			if terr != nil {
				return nil, nil, terr
			}
			if uerr := unzip.Extract(filepath.Join(dir, name), tmp); uerr != nil {
				skipped = append(skipped, name)
				continue
			}
			inner, _, lerr := LoadDir(tmp)
			if lerr != nil {
				skipped = append(skipped, name)
				continue
			}
			series = append(series, inner...)
		}
	}

	for _, p := range paths {
		s, _, lerr := LoadFile(p)
		if lerr != nil || s.Len() == 0 {
			skipped = append(skipped, filepath.Base(p))
			continue
		}
		series = append(series, s)
	}
	return series, skipped, nil
}

// LoadNames reads a code,name lookup table (stock_names.csv). Missing
// file is not an error; the result is simply empty.
func LoadNames(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	names := make(map[string]string)
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			continue
		}
		code := strings.TrimSpace(row[0])
		if first {
			first = false
			if strings.EqualFold(code, "code") {
				continue
			}
		}
		names[code] = strings.TrimSpace(row[1])
	}
	return names, nil
}

// ApplyNames fills Series.Name from the lookup table where present.
func ApplyNames(series []*Series, names map[string]string) {
	for _, s := range series {
		if n, ok := names[s.Instrument]; ok {
			s.Name = n
		}
	}
}

func parseBars(r io.Reader) ([]Bar, LoadStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		bars    []Bar
		stats   LoadStats
		header  map[string]int
		first   = true
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		if len(row) == 0 {
			continue
		}

		if first {
			first = false
			if h, ok := headerIndex(row); ok {
				header = h
				continue
			}
		}

		b, ok := parseRow(row, header)
		if !ok {
			stats.BadLines++
			continue
		}
		bars = append(bars, b)
	}
	return bars, stats, nil
}

// headerIndex maps recognized column names to positions when the first
// row is a header. The data dumps themselves are headerless.
func headerIndex(row []string) (map[string]int, bool) {
	idx := make(map[string]int)
	for i, col := range row {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "date", "日期":
			idx["date"] = i
		case "open", "开盘":
			idx["open"] = i
		case "high", "最高":
			idx["high"] = i
		case "low", "最低":
			idx["low"] = i
		case "close", "收盘":
			idx["close"] = i
		case "volume", "成交量":
			idx["volume"] = i
		case "amount", "turnover", "成交额":
			idx["amount"] = i
		}
	}
	_, hasDate := idx["date"]
	_, hasClose := idx["close"]
	return idx, hasDate && hasClose
}

func parseRow(row []string, header map[string]int) (Bar, bool) {
	get := func(key string, pos int) (float64, bool) {
		i := pos
		if header != nil {
			var ok bool
			if i, ok = header[key]; !ok {
				return 0, key == "amount" // amount column is optional
			}
		}
		if i >= len(row) {
			return 0, key == "amount"
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	di := dumpDate
	if header != nil {
		di = header["date"]
	}
	if di >= len(row) {
		return Bar{}, false
	}
	date, ok := parseDate(strings.TrimSpace(row[di]))
	if !ok {
		return Bar{}, false
	}

	if header == nil && len(row) < dumpMinFields {
		return Bar{}, false
	}

	var b Bar
	b.Date = date
	if b.Open, ok = get("open", dumpOpen); !ok {
		return Bar{}, false
	}
	if b.Close, ok = get("close", dumpClose); !ok {
		return Bar{}, false
	}
	if b.High, ok = get("high", dumpHigh); !ok {
		return Bar{}, false
	}
	if b.Low, ok = get("low", dumpLow); !ok {
		return Bar{}, false
	}
	if b.Volume, ok = get("volume", dumpVolume); !ok {
		return Bar{}, false
	}
	b.Turnover, _ = get("amount", dumpAmount)
	return b, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "20060102", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dedupe removes bars sharing a date, keeping the first occurrence.
// Requires a sorted series. Returns the number dropped.
func dedupe(s *Series) int {
	if len(s.Bars) < 2 {
		return 0
	}
	out := s.Bars[:1]
	dropped := 0
	for _, b := range s.Bars[1:] {
		if b.Date.Equal(out[len(out)-1].Date) {
			dropped++
			continue
		}
		out = append(out, b)
	}
	s.Bars = out
	return dropped
}
