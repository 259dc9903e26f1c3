package compact

import (
	"log"

	"github.com/pkoukk/tiktoken-go"

	"github.com/guichet-ai/guichet/internal/core/model"
)

const (
	// perMessageOverhead covers the role/priming tokens the chat format
	// wraps around each message; replyPriming is the fixed assistant
	// priming at the end of the prompt.
	perMessageOverhead = 4
	replyPriming       = 3

	// approxCharsPerToken backs the estimate when no BPE encoding is
	// available (offline environments).
	approxCharsPerToken = 4
)

// TokenEstimator produces deterministic token counts for budget checks.
// It prefers a real BPE encoding and degrades to a character heuristic.
type TokenEstimator struct {
	enc *tiktoken.Tiktoken
}

func NewTokenEstimator() *TokenEstimator {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Printf("tokenizer unavailable, using character estimate: %v", err)
		return &TokenEstimator{}
	}
	return &TokenEstimator{enc: enc}
}

func (e *TokenEstimator) Count(text string) int {
	if e == nil || e.enc == nil {
		return (len(text) + approxCharsPerToken - 1) / approxCharsPerToken
	}
	return len(e.enc.Encode(text, nil, nil))
}

// CountMessages estimates the prompt cost of a message list, including
// per-message overhead and reply priming.
func (e *TokenEstimator) CountMessages(messages []model.ConversationMessage) int {
	total := replyPriming
	for _, m := range messages {
		total += e.Count(m.Content) + perMessageOverhead
	}
	return total
}
