package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/venky7799/aemsearch"
	"github.com/venky7799/aemsearch/mirror"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Config     aemsearch.Config
	Searcher   aemsearch.Searcher
	Candidates aemsearch.CandidateGenerator
	Walker     *mirror.Walker
	Runs       aemsearch.MirrorRunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL     string `name:"url" env:"AEMSEARCH_URL" help:"Repository base URL"`
	DB      string `name:"db" env:"AEMSEARCH_DB" help:"Offline mirror database; search and candidates read it instead of the live repository"`
	Config  string `env:"AEMSEARCH_CONFIG" type:"path" help:"TOML configuration file"`
	Verbose bool   `short:"v" help:"Log repository calls and search runs to stderr"`

	Search     SearchCmd     `cmd:"" help:"Search for content matching a term"`
	Candidates CandidatesCmd `cmd:"" help:"Show the locale subtrees a search would explore"`
	Mirror     MirrorCmd     `cmd:"" help:"Copy a live repository subtree into the offline mirror"`
	Runs       RunsCmd       `cmd:"" help:"List previous mirror runs"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Term      string   `arg:"" help:"Search term"`
	Base      string   `short:"b" default:"/content" help:"Base path to search under"`
	Limit     int      `short:"n" default:"10" help:"Maximum number of results"`
	Threshold float64  `short:"t" default:"0.7" help:"Fuzzy acceptance threshold in [0,1]"`
	Depth     int      `short:"d" default:"3" help:"Levels listed below each candidate path"`
	Inactive  bool     `help:"Include unpublished content"`
	Locales   []string `name:"locale" short:"l" help:"Known locale codes (repeatable)"`
	Format    string   `short:"f" enum:"text,json" default:"text" help:"Output format (text, json)"`
}

// CandidatesCmd is the "candidates" subcommand.
type CandidatesCmd struct {
	Base     string   `arg:"" help:"Base path of the site"`
	Inactive bool     `help:"Accept unpublished subtrees"`
	Locales  []string `name:"locale" short:"l" help:"Known locale codes (repeatable)"`
	Format   string   `short:"f" enum:"text,json" default:"text" help:"Output format (text, json)"`
}

// MirrorCmd is the "mirror" subcommand.
type MirrorCmd struct {
	Root     string `arg:"" help:"Repository path to copy"`
	MaxNodes int    `default:"0" help:"Stop after this many nodes (0 = no limit)"`
	MaxDepth int    `default:"0" help:"Levels below the root to copy (0 = no limit)"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"10" help:"Number of runs to show (0 = all)"`
}
