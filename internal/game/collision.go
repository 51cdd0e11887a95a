package game

import "log"

// resolveCollisions runs the two consumption passes for a freshly moved
// player. Must be called with the session lock held.
//
// The food pass runs fully before the player pass: a mover that grows
// from food in this step is compared against other players with its
// grown score. Within the food pass, earlier absorptions enlarge the
// mover's radius for later food in the same pass.
//
// Each consumption removes exactly one entity and credits its full
// score to exactly one player, so score is conserved per event.
func (s *State) resolveCollisions(p *Player) {
	// Food pass. Iteration order over the map is unspecified but total:
	// each food item is tested at most once per move.
	for id, f := range s.food {
		if !Overlaps(p.X, p.Y, p.Score, f.X, f.Y, f.Score) {
			continue
		}

		p.Score += f.Score
		delete(s.food, id)
		foodEatenTotal.Inc()

		log.Printf("🍽️ session %s: %s ate food worth %d (score %d)", s.id, p.Name, f.Score, p.Score)
		s.events.EmitSimple(EventTypeFoodEaten, s.id, p.ID, FoodEatenPayload{
			PlayerID: p.ID,
			FoodID:   f.ID,
			Amount:   f.Score,
			NewScore: p.Score,
		})

		if s.settler != nil {
			s.settler.SettleFoodEaten(FoodEaten{
				SessionID:   s.id,
				EaterID:     p.ID,
				EaterWallet: p.Wallet,
				FoodID:      f.ID,
				Amount:      f.Score,
			})
		}
	}

	// Player pass, against the mover's post-food score.
	for id, o := range s.players {
		if id == p.ID {
			continue
		}
		if !Overlaps(p.X, p.Y, p.Score, o.X, o.Y, o.Score) {
			continue
		}

		switch {
		case p.Score > o.Score:
			s.consumePlayer(p, o)

		case p.Score < o.Score:
			s.consumePlayer(o, p)
			// The mover no longer exists; nothing left to collide.
			return

		default:
			// Exact tie: neither player is affected. Ties never resolve.
		}
	}
}

// consumePlayer removes loser from the session and credits its entire
// score to winner. Must be called with the session lock held.
func (s *State) consumePlayer(winner, loser *Player) {
	amount := loser.Score
	winner.Score += amount
	delete(s.players, loser.ID)
	playersActive.Dec()
	playersEatenTotal.Inc()

	log.Printf("💀 session %s: %s absorbed %s for %d (score %d)",
		s.id, winner.Name, loser.Name, amount, winner.Score)
	s.events.EmitSimple(EventTypePlayerEaten, s.id, winner.ID, PlayerEatenPayload{
		WinnerID:    winner.ID,
		LoserID:     loser.ID,
		Amount:      amount,
		WinnerScore: winner.Score,
	})

	if s.settler != nil {
		s.settler.SettlePlayerEaten(PlayerEaten{
			SessionID:    s.id,
			WinnerID:     winner.ID,
			WinnerWallet: winner.Wallet,
			LoserID:      loser.ID,
			LoserWallet:  loser.Wallet,
			Amount:       amount,
		})
	}
}
