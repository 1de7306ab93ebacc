// Package adapter unifies the commit sources behind a single interface.
package adapter

import (
	"context"
	"time"

	"github.com/Yates-Labs/crumbs/internal/model"
)

// Platform identifies where commits are collected from
type Platform string

const (
	PlatformGit    Platform = "git"
	PlatformGitHub Platform = "github"
)

// Filter restricts which commits an adapter returns
type Filter struct {
	Since      *time.Time
	Until      *time.Time
	Author     string
	Branch     string
	MaxCommits int
}

// Origin describes where a source reads from. Fields are empty when unknown.
type Origin struct {
	Branch    string
	RemoteURL string
}

// Adapter defines the interface for collecting commits from a source
// platform into the standardized model.Commit
type Adapter interface {
	// FetchCommits returns commits newest first
	FetchCommits(ctx context.Context, filter Filter) ([]model.Commit, error)

	// GetPlatform returns the source platform identifier
	GetPlatform() Platform

	// Name returns the repository display name
	Name() string

	// Origin returns the default branch and remote location
	Origin() Origin
}
