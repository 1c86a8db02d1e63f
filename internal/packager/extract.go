package packager

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// =============================================================================
// BLOCK EXTRACTOR
// =============================================================================

// fileHeaderRe matches one file-header marker line in model output:
//
//	### FILE: path/to/file.ext
//
// anchored at line start, tolerant of missing spaces and CRLF endings.
var fileHeaderRe = regexp.MustCompile(`(?m)^[ \t]*###[ \t]*FILE:[ \t]*(.*?)\r?$`)

// RawBlock is a candidate file discovered in model output, before path
// validation and content sanitization.
type RawBlock struct {
	Path    string
	Content string
}

// ExtractBlocks slices model output into per-file blocks.
//
// Every header line starts a block; the block's raw content runs from the end
// of the header line to the start of the next header (or end of text). A
// matching closing fence is deliberately not required, so a missing or
// malformed fence never corrupts the next file's boundary. If, after that,
// a block's whole body is one fenced region, the fence is unwrapped.
func ExtractBlocks(output string) []RawBlock {
	headers := fileHeaderRe.FindAllStringSubmatchIndex(output, -1)
	blocks := make([]RawBlock, 0, len(headers))

	for i, h := range headers {
		rawPath := strings.TrimSpace(output[h[2]:h[3]])

		start := h[1]
		end := len(output)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}

		body := output[start:end]
		body = strings.TrimLeft(body, "\r\n")
		if inner, ok := unwrapFullFence(body); ok {
			body = inner
		}

		blocks = append(blocks, RawBlock{Path: rawPath, Content: body})
	}

	return blocks
}

// extractFiles runs block extraction, validates each path, sanitizes each
// body, and upserts the survivors. It returns the number of accepted blocks;
// zero is the trigger condition for the bootstrap skeleton.
func (p *Packager) extractFiles(output string, reg *Registry) int {
	count := 0
	for _, block := range ExtractBlocks(output) {
		clean, ok := SanitizePath(block.Path)
		if !ok {
			p.logger.Warn("skipping block with invalid or disallowed path",
				zap.String("path", block.Path))
			continue
		}
		reg.Upsert(clean, SanitizeContent(clean, block.Content))
		p.logger.Debug("packaged code file", zap.String("path", clean))
		count++
	}

	if count == 0 {
		p.logger.Warn("no blocks matched the expected ### FILE: format")
	} else {
		p.logger.Info("packaged code files", zap.Int("count", count))
	}
	return count
}
