package service

import "context"

// NameRegistry encodes the three registry contract methods and routes them through a provider.
type NameRegistry interface {
	Address() string
	ReadName(ctx context.Context, p Provider, from string) (string, error)
	IsNameExists(ctx context.Context, p Provider, from, name string) (bool, error)
	SetName(ctx context.Context, p Provider, from, name string) (*Receipt, error)
}
