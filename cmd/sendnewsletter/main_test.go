package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliverer struct {
	failFor map[uint]error
	sent    []uint
}

func (f *fakeDeliverer) SendMailToClients(id uint) error {
	if err, ok := f.failFor[id]; ok {
		return err
	}
	f.sent = append(f.sent, id)
	return nil
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "42", "7"})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 42, 7}, ids)

	_, err = parseIDs([]string{"1", "seven"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"seven"`)
}

func TestRunSendInOrder(t *testing.T) {
	d := &fakeDeliverer{}
	var out bytes.Buffer

	require.NoError(t, runSend(d, &out, []uint{3, 1, 2}))
	assert.Equal(t, []uint{3, 1, 2}, d.sent)
	assert.Equal(t, "Successfully sent newsletter 3\nSuccessfully sent newsletter 1\nSuccessfully sent newsletter 2\n", out.String())
}

func TestRunSendAbortsOnFirstFailure(t *testing.T) {
	d := &fakeDeliverer{failFor: map[uint]error{2: errors.New("newsletter 2 not found")}}
	var out bytes.Buffer

	err := runSend(d, &out, []uint{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newsletter 2")

	// The failure stops the batch, the third newsletter is never sent
	assert.Equal(t, []uint{1}, d.sent)
	assert.Equal(t, "Successfully sent newsletter 1\n", out.String())
}
