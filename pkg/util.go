package treeutils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseHumanSize parses human-readable size strings (e.g., "64K", "2M", "1G").
// Single-letter suffixes are binary multiples; anything else ("64KiB",
// "1.5 MB") is handed to humanize.ParseBytes.
func ParseHumanSize(sizeStr string) (int, error) {
	if strings.TrimSpace(sizeStr) == "" {
		return 0, fmt.Errorf("empty size string")
	}

	upper := strings.ToUpper(strings.TrimSpace(sizeStr))

	var numPart, suffix string
	for i, char := range upper {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = strings.TrimSpace(upper[i:])
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	var multiplier int64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		n, err := humanize.ParseBytes(sizeStr)
		if err != nil {
			return 0, fmt.Errorf("unknown size suffix: %s", suffix)
		}
		return checkSize(int64(n), sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	return checkSize(int64(num*float64(multiplier)), sizeStr)
}

func checkSize(result int64, sizeStr string) (int, error) {
	if result <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", sizeStr)
	}
	if result > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}
	return int(result), nil
}
