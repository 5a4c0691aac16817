// internal/game/score.go
//
// Hint computation for one guess against the secret.
// Pure: no state, no I/O; consumption marks live only for one call.

package game

import "github.com/robalobadob/mastermind/internal/code"

// Score computes the hint for guess against secret. Both must be complete.
//
// Every secret peg and every guess peg is consumed by at most one match:
//
// Pass 1:
//   - Same color in the same slot is exact; both slots are consumed.
//
// Pass 2:
//   - For each unconsumed guess slot i, take the first unconsumed secret
//     slot j with the same color. If guess[j] itself equals secret[j], the
//     match is credited as exact and consumes slot j on both sides;
//     otherwise it is a color match consuming guess[i] and secret[j].
//
// Pass 1 consumes every slot where guess[j]==secret[j], so for complete
// codes the exact credit in pass 2 is unreachable.
func Score(secret, guess code.Code) Feedback {
	var (
		fb        Feedback
		usedGuess [code.Length]bool
		usedSec   [code.Length]bool
	)

	for i := 0; i < code.Length; i++ {
		if guess[i] == secret[i] {
			fb.Exact++
			usedGuess[i], usedSec[i] = true, true
		}
	}

	for i := 0; i < code.Length; i++ {
		if usedGuess[i] {
			continue
		}
		for j := 0; j < code.Length; j++ {
			if usedSec[j] || guess[i] != secret[j] {
				continue
			}
			if guess[j] == secret[j] {
				fb.Exact++
				usedGuess[j], usedSec[j] = true, true
			} else {
				fb.Color++
				usedGuess[i], usedSec[j] = true, true
			}
			break
		}
	}
	return fb
}
