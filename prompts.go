/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

type promptSource interface {
	Prompt() string
}

// promptBank draws uniformly, with replacement, from a fixed pool.
type promptBank struct {
	prompts []string
	rng     *rand.Rand
}

func newPromptBank(rng *rand.Rand, prompts []string) (*promptBank, error) {
	if len(prompts) == 0 {
		return nil, errors.New("prompt list is empty")
	}

	return &promptBank{
		prompts: prompts,
		rng:     rng,
	}, nil
}

func (b *promptBank) Prompt() string {
	return b.prompts[b.rng.IntN(len(b.prompts))]
}

// loadPrompts reads one prompt per line. Blank lines and lines starting
// with '#' are skipped.
func loadPrompts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var prompts []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(prompts) == 0 {
		return nil, fmt.Errorf("no prompts found in %s", path)
	}

	return prompts, nil
}

var defaultPrompts = []string{
	"Is pineapple an acceptable pizza topping?",
	"Should toilet paper hang over or under?",
	"Is a hot dog a sandwich?",
	"Does milk go before or after cereal?",
	"Is it acceptable to put ketchup on steak?",
	"Is it okay to recline your seat on an airplane?",
	"Should you put your shopping cart back at the store? Explain.",
	"Is it alright to talk during movies?",
	"Is it acceptable to wear socks with sandals?",
	"Should you put salt on watermelon?",
	"Should you shower in the morning or evening?",
	"Do you wash your legs in the shower?",
	"Is it okay to text 'K' as a response?",
	"Is it acceptable to ghost someone?",
	"Is it okay to break up with someone via text?",
	"Should you tip for takeout orders?",
	"Is standing at concerts rude to people behind you?",
	"Is it acceptable to listen to music without headphones in public?",
	"Is it acceptable to check your partner's phone?",
	"Is it acceptable to correct someone's grammar in casual conversation?",
	"Is it acceptable to drink directly from the milk carton?",
	"Is it okay to talk to someone while they're wearing headphones?",
	"Should you leave a negative review for bad service?",
	"Is it acceptable to eat food in a grocery store before paying?",
	"Is it okay to ask someone's salary?",
	"Should parents monitor their teenagers' text messages?",
	"Should you remove your shoes before entering someone's home?",
	"Is it okay to make phone calls in public bathrooms?",
	"Should you keep your camera on during video meetings?",
	"Is it acceptable to call instead of text without warning?",
	"Is it okay to ask a pregnant person when they're due?",
	"Is it okay to listen to explicit music?",
	"Is it okay to do homework on Sundays?",
	"Is it acceptable to kiss in public?",
	"Is it okay to use self-checkout with a full cart of groceries?",
	"Should you make your bed every morning?",
	"Is it acceptable to text during a date?",
	"Is it okay to take food home from a buffet?",
	"Should you leave a tip even if service was poor?",
	"Is it acceptable to ignore phone calls and text back instead?",
	"Should you tell a friend if you don't like their significant other?",
	"Is it okay to give used items as gifts?",
	"Is it okay to stay friends with an ex?",
	"Is it acceptable to double-dip chips at parties?",
}
