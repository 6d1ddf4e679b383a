/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.txt")
	content := "# office edition\n\nIs a standup ever short?\n   \n  Tabs or spaces?  \n#skip me\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	prompts, err := loadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Is a standup ever short?", "Tabs or spaces?"}, prompts)
}

func TestLoadPrompts_Errors(t *testing.T) {
	_, err := loadPrompts(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n\n"), 0o600))

	_, err = loadPrompts(path)
	assert.ErrorContains(t, err, "no prompts found")
}

func TestPromptBank(t *testing.T) {
	_, err := newPromptBank(rand.New(rand.NewPCG(1, 1)), nil)
	assert.Error(t, err)

	bank, err := newPromptBank(rand.New(rand.NewPCG(1, 1)), defaultPrompts)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		assert.Contains(t, defaultPrompts, bank.Prompt())
	}

	again, err := newPromptBank(rand.New(rand.NewPCG(1, 1)), defaultPrompts)
	require.NoError(t, err)

	first, _ := newPromptBank(rand.New(rand.NewPCG(1, 1)), defaultPrompts)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.Prompt(), again.Prompt())
	}
}

func TestNewPromptSource(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewPCG(2, 3))

	src, err := newPromptSource(cfg, rng)
	require.NoError(t, err)
	assert.Contains(t, defaultPrompts, src.Prompt())

	path := filepath.Join(t.TempDir(), "one.txt")
	require.NoError(t, os.WriteFile(path, []byte("Only question\n"), 0o600))
	cfg.prompts = path

	src, err = newPromptSource(cfg, rng)
	require.NoError(t, err)
	assert.Equal(t, "Only question", src.Prompt())

	cfg.prompts = filepath.Join(t.TempDir(), "absent.txt")
	_, err = newPromptSource(cfg, rng)
	assert.Error(t, err)
}
