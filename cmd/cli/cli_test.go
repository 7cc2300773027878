package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
	"storefront-service/internal/services"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{80000, "Rp80.000"},
		{1234567, "Rp1.234.567"},
		{87000.4, "Rp87.000"},
		{-8000, "-Rp8.000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatRupiah(tt.amount))
		})
	}
}

func TestParsePriceFlag(t *testing.T) {
	v, unset, err := parsePriceFlag("min", " 15000 ")
	require.NoError(t, err)
	assert.False(t, unset)
	assert.Equal(t, 15000.0, *v)

	v, unset, err = parsePriceFlag("max", "")
	require.NoError(t, err)
	assert.True(t, unset)
	assert.Nil(t, v)

	_, _, err = parsePriceFlag("min", "murah")
	assert.ErrorContains(t, err, "--min")
}

func TestResolveStatePath(t *testing.T) {
	path, err := resolveStatePath("/tmp/explicit.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/explicit.db", path)

	t.Setenv("STOREFRONT_STATE", "/tmp/env.db")
	path, err = resolveStatePath("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", path)

	t.Setenv("STOREFRONT_STATE", "")
	t.Setenv("HOME", "/home/tester")
	path, err = resolveStatePath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".storefront", "state.db"), path)
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "Stok habis", describeError(fmt.Errorf("create order: %w", &clients.APIError{Status: 400, Detail: "Stok habis"})))
	assert.Equal(t, "Email is not valid", describeError(&services.ValidationError{Code: "INVALID_BUYER", Field: "email", Message: "Email is not valid"}))
	assert.Contains(t, describeError(services.ErrNotAuthenticated), "storefront login")
	assert.Equal(t, "boom", describeError(errors.New("boom")))
}

func TestRenderCart_LineTotals(t *testing.T) {
	var buf bytes.Buffer
	summary := &models.CartSummary{
		Lines:     []models.CartLine{{ProductID: "p2", Title: "Minyak Goreng", Price: 20000, Quantity: 2}},
		LineCount: 1,
		ItemCount: 2,
		Totals:    models.Totals{Subtotal: 40000, DeliveryFee: 15000, Total: 55000},
	}

	renderCart(&buf, summary)

	assert.Contains(t, buf.String(), "Rp40.000")
	assert.Contains(t, buf.String(), "Rp55.000")
}

func TestExecute_ClosesStoreWhenCommandFails(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{
		"--state", filepath.Join(t.TempDir(), "state.db"),
		"--backend", "http://127.0.0.1:1",
		"cart", "set", "p1", "dua",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := execute(context.Background())

	assert.ErrorContains(t, err, "whole number")
	require.NotNil(t, app)
	_, err = app.store.Get(context.Background(), localSession, "cart")
	assert.Error(t, err)
}
