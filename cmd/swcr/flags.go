package main

import (
	"github.com/spf13/pflag"

	"github.com/dgallion1/swcr/internal/config"
)

// generateFlags binds the generate flags to a Config. Only flags the user
// set are copied onto the loaded settings.
type generateFlags struct {
	cfg        config.Config
	noEllipsis bool
}

// flagFields maps each generate flag to the Config field it sets.
var flagFields = map[string]func(dst *config.Config, f *generateFlags){
	"title":           func(d *config.Config, f *generateFlags) { d.Title = f.cfg.Title },
	"version-label":   func(d *config.Config, f *generateFlags) { d.Version = f.cfg.Version },
	"indirs":          func(d *config.Config, f *generateFlags) { d.InDirs = f.cfg.InDirs },
	"exts":            func(d *config.Config, f *generateFlags) { d.Exts = f.cfg.Exts },
	"excludes":        func(d *config.Config, f *generateFlags) { d.Excludes = f.cfg.Excludes },
	"comment-chars":   func(d *config.Config, f *generateFlags) { d.CommentChars = f.cfg.CommentChars },
	"blank-lines":     func(d *config.Config, f *generateFlags) { d.BlankLines = f.cfg.BlankLines },
	"keep-comments":   func(d *config.Config, f *generateFlags) { d.KeepComments = f.cfg.KeepComments },
	"file-headers":    func(d *config.Config, f *generateFlags) { d.FileHeaders = f.cfg.FileHeaders },
	"tab-width":       func(d *config.Config, f *generateFlags) { d.TabWidth = f.cfg.TabWidth },
	"font-name":       func(d *config.Config, f *generateFlags) { d.FontName = f.cfg.FontName },
	"font-size":       func(d *config.Config, f *generateFlags) { d.FontSize = f.cfg.FontSize },
	"cjk-font":        func(d *config.Config, f *generateFlags) { d.CJKFont = f.cfg.CJKFont },
	"space-before":    func(d *config.Config, f *generateFlags) { d.SpaceBefore = f.cfg.SpaceBefore },
	"space-after":     func(d *config.Config, f *generateFlags) { d.SpaceAfter = f.cfg.SpaceAfter },
	"line-spacing":    func(d *config.Config, f *generateFlags) { d.LineSpacing = f.cfg.LineSpacing },
	"lines-per-page":  func(d *config.Config, f *generateFlags) { d.LinesPerPage = f.cfg.LinesPerPage },
	"max-front-pages": func(d *config.Config, f *generateFlags) { d.MaxFrontPages = f.cfg.MaxFrontPages },
	"max-back-pages":  func(d *config.Config, f *generateFlags) { d.MaxBackPages = f.cfg.MaxBackPages },
	"no-ellipsis":     func(d *config.Config, f *generateFlags) { d.EllipsisPage = !f.noEllipsis },
	"format":          func(d *config.Config, f *generateFlags) { d.Format = f.cfg.Format },
	"outfile":         func(d *config.Config, f *generateFlags) { d.Outfile = f.cfg.Outfile },
	"verify":          func(d *config.Config, f *generateFlags) { d.Verify = f.cfg.Verify },
}

// register defines the generate flags on fs, with defaults shown in help.
func (f *generateFlags) register(fs *pflag.FlagSet) {
	def := config.Default()
	c := &f.cfg

	fs.StringVar(&c.Title, "title", def.Title, "Software name printed in the page header")
	fs.StringVar(&c.Version, "version-label", def.Version, "Software version printed after the title")
	fs.StringSliceVarP(&c.InDirs, "indirs", "i", def.InDirs, "Source directories to scan")
	fs.StringSliceVarP(&c.Exts, "exts", "e", def.Exts, "File extensions to include")
	fs.StringSliceVar(&c.Excludes, "excludes", nil, "Files or directories to skip")
	fs.StringSliceVarP(&c.CommentChars, "comment-chars", "c", nil, "Comment markers; open|close declares a block pair (default: per file type)")
	fs.StringVar(&c.BlankLines, "blank-lines", def.BlankLines, "Blank line policy: drop, collapse or keep")
	fs.BoolVar(&c.KeepComments, "keep-comments", false, "Keep comment lines in the listing")
	fs.BoolVar(&c.FileHeaders, "file-headers", false, "Print a File: line before each source file")
	fs.IntVar(&c.TabWidth, "tab-width", def.TabWidth, "Spaces per tab stop (0 keeps tabs)")
	fs.StringVar(&c.FontName, "font-name", def.FontName, "Body font")
	fs.Float64Var(&c.FontSize, "font-size", def.FontSize, "Body font size in points")
	fs.StringVar(&c.CJKFont, "cjk-font", "", "TrueType font for non-Latin text in PDF output")
	fs.Float64Var(&c.SpaceBefore, "space-before", def.SpaceBefore, "Space before each line in points")
	fs.Float64Var(&c.SpaceAfter, "space-after", def.SpaceAfter, "Space after each line in points")
	fs.Float64Var(&c.LineSpacing, "line-spacing", def.LineSpacing, "Line spacing multiple")
	fs.IntVar(&c.LinesPerPage, "lines-per-page", def.LinesPerPage, "Code lines on each page")
	fs.IntVar(&c.MaxFrontPages, "max-front-pages", def.MaxFrontPages, "Pages kept from the start")
	fs.IntVar(&c.MaxBackPages, "max-back-pages", def.MaxBackPages, "Pages kept from the end")
	fs.BoolVar(&f.noEllipsis, "no-ellipsis", false, "Leave out the ellipsis page between front and back pages")
	fs.StringVarP(&c.Format, "format", "f", "", "Output format: docx or pdf (default: from --outfile)")
	fs.StringVarP(&c.Outfile, "outfile", "o", def.Outfile, "Output file")
	fs.BoolVar(&c.Verify, "verify", false, "Reopen the output and check its page count")
}

// apply copies the flags set on fs onto dst.
func (f *generateFlags) apply(fs *pflag.FlagSet, dst *config.Config) {
	fs.Visit(func(flag *pflag.Flag) {
		if set, ok := flagFields[flag.Name]; ok {
			set(dst, f)
		}
	})
}
