package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Blank-line policies.
const (
	BlankDrop     = "drop"
	BlankCollapse = "collapse"
	BlankKeep     = "keep"
)

// Output formats.
const (
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
)

type Config struct {
	// Document header
	Title   string `yaml:"title"`
	Version string `yaml:"version"`

	// Source discovery
	InDirs   []string `yaml:"indirs"`
	Exts     []string `yaml:"exts"`
	Excludes []string `yaml:"excludes"`

	// Filtering
	CommentChars []string `yaml:"comment_chars"`
	BlankLines   string   `yaml:"blank_lines"`
	KeepComments bool     `yaml:"keep_comments"`
	FileHeaders  bool     `yaml:"file_headers"`
	TabWidth     int      `yaml:"tab_width"`

	// Typography
	FontName    string  `yaml:"font_name"`
	FontSize    float64 `yaml:"font_size"`
	CJKFont     string  `yaml:"cjk_font"`
	SpaceBefore float64 `yaml:"space_before"`
	SpaceAfter  float64 `yaml:"space_after"`
	LineSpacing float64 `yaml:"line_spacing"`

	// Pagination
	LinesPerPage  int  `yaml:"lines_per_page"`
	MaxFrontPages int  `yaml:"max_front_pages"`
	MaxBackPages  int  `yaml:"max_back_pages"`
	EllipsisPage  bool `yaml:"ellipsis_page"`

	// Output
	Format  string `yaml:"format"`
	Outfile string `yaml:"outfile"`
	Verify  bool   `yaml:"verify"`
}

// Default returns the settings a filing usually asks for: 30 pages from the
// start of the code, 30 from the end, 50 lines on each.
func Default() Config {
	return Config{
		Title:         "软件著作权申请材料",
		Version:       "V1.0",
		InDirs:        []string{"."},
		Exts:          []string{"c", "h", "py", "js", "java", "cpp", "hpp"},
		BlankLines:    BlankDrop,
		TabWidth:      4,
		FontName:      "Courier",
		FontSize:      9,
		LineSpacing:   1.0,
		LinesPerPage:  50,
		MaxFrontPages: 30,
		MaxBackPages:  30,
		EllipsisPage:  true,
		Outfile:       "code.pdf",
	}
}

// LoadFile merges the YAML file at path over cfg. Keys absent from the file
// keep their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays SWCR_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	cfg.Title = envOr("SWCR_TITLE", cfg.Title)
	cfg.Version = envOr("SWCR_VERSION", cfg.Version)

	cfg.InDirs = envList("SWCR_INDIRS", cfg.InDirs)
	cfg.Exts = envList("SWCR_EXTS", cfg.Exts)
	cfg.Excludes = envList("SWCR_EXCLUDES", cfg.Excludes)
	cfg.CommentChars = envList("SWCR_COMMENT_CHARS", cfg.CommentChars)

	cfg.BlankLines = envOr("SWCR_BLANK_LINES", cfg.BlankLines)
	cfg.KeepComments = envBool("SWCR_KEEP_COMMENTS", cfg.KeepComments)
	cfg.FileHeaders = envBool("SWCR_FILE_HEADERS", cfg.FileHeaders)
	cfg.TabWidth = envInt("SWCR_TAB_WIDTH", cfg.TabWidth)

	cfg.FontName = envOr("SWCR_FONT_NAME", cfg.FontName)
	cfg.FontSize = envFloat("SWCR_FONT_SIZE", cfg.FontSize)
	cfg.CJKFont = envOr("SWCR_CJK_FONT", cfg.CJKFont)
	cfg.SpaceBefore = envFloat("SWCR_SPACE_BEFORE", cfg.SpaceBefore)
	cfg.SpaceAfter = envFloat("SWCR_SPACE_AFTER", cfg.SpaceAfter)
	cfg.LineSpacing = envFloat("SWCR_LINE_SPACING", cfg.LineSpacing)

	cfg.LinesPerPage = envInt("SWCR_LINES_PER_PAGE", cfg.LinesPerPage)
	cfg.MaxFrontPages = envInt("SWCR_MAX_FRONT_PAGES", cfg.MaxFrontPages)
	cfg.MaxBackPages = envInt("SWCR_MAX_BACK_PAGES", cfg.MaxBackPages)
	cfg.EllipsisPage = envBool("SWCR_ELLIPSIS_PAGE", cfg.EllipsisPage)

	cfg.Format = envOr("SWCR_FORMAT", cfg.Format)
	cfg.Outfile = envOr("SWCR_OUTFILE", cfg.Outfile)
	cfg.Verify = envBool("SWCR_VERIFY", cfg.Verify)
}

// ResolvedFormat returns the explicit format, or the one implied by the
// output file extension.
func (c Config) ResolvedFormat() string {
	if c.Format != "" {
		return strings.ToLower(c.Format)
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(c.Outfile)), ".")
}

func (c Config) Validate() error {
	if len(c.InDirs) == 0 {
		return errors.New("at least one input directory is required")
	}
	for _, dir := range c.InDirs {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("input directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("input directory %s is not a directory", dir)
		}
	}
	if len(c.Exts) == 0 {
		return errors.New("at least one file extension is required")
	}
	switch c.BlankLines {
	case BlankDrop, BlankCollapse, BlankKeep:
	default:
		return fmt.Errorf("blank_lines must be %q, %q or %q, got %q", BlankDrop, BlankCollapse, BlankKeep, c.BlankLines)
	}
	if c.TabWidth < 0 {
		return fmt.Errorf("tab_width must not be negative, got %d", c.TabWidth)
	}
	if c.FontName == "" {
		return errors.New("font_name is required")
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %g", c.FontSize)
	}
	if c.SpaceBefore < 0 || c.SpaceAfter < 0 {
		return errors.New("paragraph spacing must not be negative")
	}
	if c.LineSpacing <= 0 {
		return fmt.Errorf("line_spacing must be positive, got %g", c.LineSpacing)
	}
	if c.LinesPerPage <= 0 {
		return fmt.Errorf("lines_per_page must be positive, got %d", c.LinesPerPage)
	}
	if c.MaxFrontPages < 0 || c.MaxBackPages < 0 {
		return errors.New("page limits must not be negative")
	}
	if c.MaxFrontPages == 0 && c.MaxBackPages == 0 {
		return errors.New("max_front_pages and max_back_pages cannot both be zero")
	}
	if c.Outfile == "" {
		return errors.New("outfile is required")
	}
	switch f := c.ResolvedFormat(); f {
	case FormatDOCX, FormatPDF:
	default:
		return fmt.Errorf("unsupported output format %q (want %s or %s)", f, FormatDOCX, FormatPDF)
	}
	if dir := filepath.Dir(c.Outfile); dir != "." {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("output directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("output directory %s is not a directory", dir)
		}
	}
	if c.CJKFont != "" {
		if _, err := os.Stat(c.CJKFont); err != nil {
			return fmt.Errorf("cjk font: %w", err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
