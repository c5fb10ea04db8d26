package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvilla87/polymirror/internal/balance"
)

// fakeApprover registra los argumentos del approval y devuelve un hash fijo.
type fakeApprover struct {
	token   string
	spender string
	err     error
}

func (f *fakeApprover) ApproveMax(_ context.Context, token, spender string) (string, error) {
	f.token = token
	f.spender = spender
	if f.err != nil {
		return "", f.err
	}
	return "0xdeadbeef", nil
}

func TestSendApproval_PrintsTxHash(t *testing.T) {
	approver := &fakeApprover{}
	var out bytes.Buffer

	err := sendApproval(context.Background(), approver, &out)
	require.NoError(t, err)

	assert.Equal(t, balance.USDCe, approver.token)
	assert.Equal(t, balance.CTFExchange, approver.spender)
	assert.Contains(t, out.String(), "approval tx: 0xdeadbeef")
}

func TestSendApproval_PropagatesError(t *testing.T) {
	approver := &fakeApprover{err: errors.New("rpc down")}
	var out bytes.Buffer

	err := sendApproval(context.Background(), approver, &out)
	require.Error(t, err)
	assert.Empty(t, out.String())
}
