package game_test

import (
	"testing"

	game "github.com/robalobadob/hoopdle/apps/go-server/internal/game"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int { return &v }

// targetPlayer returns the reference target used across comparison tests.
func targetPlayer() game.Player {
	return game.Player{
		ID:               1,
		Name:             "LeBron James",
		Team:             "Los Angeles Lakers",
		TeamAbbreviation: "LAL",
		Division:         "Pacific",
		Conference:       "West",
		Age:              intp(39),
		Height:           "6-9",
		Position:         "SF",
		JerseyNumber:     intp(23),
		PPG:              25.0,
	}
}

// guessPlayer returns the reference guess used across comparison tests.
func guessPlayer() game.Player {
	return game.Player{
		ID:               2,
		Name:             "Stephen Curry",
		Team:             "Golden State Warriors",
		TeamAbbreviation: "GSW",
		Division:         "Pacific",
		Conference:       "West",
		Age:              intp(35),
		Height:           "6-2",
		Position:         "PG",
		JerseyNumber:     intp(30),
		PPG:              26.0,
	}
}

func TestCompare_ReferenceGuess(t *testing.T) {
	Convey("Given the reference target and guess", t, func() {
		target := targetPlayer()
		guess := guessPlayer()

		Convey("When comparing the guess to the target", func() {
			c := game.Compare(&target, &guess)

			Convey("Then team is incorrect with raw values preserved", func() {
				So(c.Team.Status, ShouldEqual, game.StatusIncorrect)
				So(c.Team.Guessed, ShouldEqual, "Golden State Warriors")
				So(c.Team.Target, ShouldEqual, "Los Angeles Lakers")
			})

			Convey("Then division and conference are correct", func() {
				So(c.Division.Status, ShouldEqual, game.StatusCorrect)
				So(c.Conference.Status, ShouldEqual, game.StatusCorrect)
			})

			Convey("Then age says higher (target is older)", func() {
				So(c.Age.Status, ShouldEqual, game.StatusHigher)
				So(c.Age.Guessed, ShouldEqual, 35)
				So(c.Age.Target, ShouldEqual, 39)
			})

			Convey("Then height says higher (target is taller)", func() {
				So(c.Height.Status, ShouldEqual, game.StatusHigher)
			})

			Convey("Then position is incorrect (guard vs forward)", func() {
				So(c.Position.Status, ShouldEqual, game.StatusIncorrect)
			})

			Convey("Then jersey says lower (target wears a lower number)", func() {
				So(c.JerseyNumber.Status, ShouldEqual, game.StatusLower)
			})

			Convey("Then ppg says lower (target scores less)", func() {
				So(c.PPG.Status, ShouldEqual, game.StatusLower)
			})
		})

		Convey("When the guess is the target itself", func() {
			self := targetPlayer()
			c := game.Compare(&target, &self)

			Convey("Then every attribute is correct", func() {
				So(c.Team.Status, ShouldEqual, game.StatusCorrect)
				So(c.Division.Status, ShouldEqual, game.StatusCorrect)
				So(c.Conference.Status, ShouldEqual, game.StatusCorrect)
				So(c.Age.Status, ShouldEqual, game.StatusCorrect)
				So(c.Height.Status, ShouldEqual, game.StatusCorrect)
				So(c.Position.Status, ShouldEqual, game.StatusCorrect)
				So(c.JerseyNumber.Status, ShouldEqual, game.StatusCorrect)
				So(c.PPG.Status, ShouldEqual, game.StatusCorrect)
			})
		})

		Convey("When comparing twice with the same inputs", func() {
			first := game.Compare(&target, &guess)
			second := game.Compare(&target, &guess)

			Convey("Then the results are identical and inputs are untouched", func() {
				So(second, ShouldResemble, first)
				So(target, ShouldResemble, targetPlayer())
				So(guess, ShouldResemble, guessPlayer())
			})
		})
	})
}

func TestCompare_Team(t *testing.T) {
	Convey("Given a target on the Lakers", t, func() {
		target := targetPlayer()

		Convey("When the full team name matches case-insensitively", func() {
			guess := guessPlayer()
			guess.Team = "los angeles LAKERS"
			guess.TeamAbbreviation = ""
			c := game.Compare(&target, &guess)

			Convey("Then team is correct", func() {
				So(c.Team.Status, ShouldEqual, game.StatusCorrect)
			})
		})

		Convey("When names differ but abbreviations match", func() {
			guess := guessPlayer()
			guess.Team = "LA Lakers"
			guess.TeamAbbreviation = "lal"
			c := game.Compare(&target, &guess)

			Convey("Then the abbreviation fallback makes it correct", func() {
				So(c.Team.Status, ShouldEqual, game.StatusCorrect)
			})
		})

		Convey("When a team name is empty on either side", func() {
			guess := guessPlayer()
			guess.Team = ""
			guess.TeamAbbreviation = "LAL"
			c := game.Compare(&target, &guess)

			Convey("Then team is incorrect even with a matching abbreviation", func() {
				So(c.Team.Status, ShouldEqual, game.StatusIncorrect)
			})
		})

		Convey("When only one side has an abbreviation", func() {
			guess := guessPlayer()
			guess.Team = "LA Lakers"
			guess.TeamAbbreviation = ""
			c := game.Compare(&target, &guess)

			Convey("Then the fallback does not apply", func() {
				So(c.Team.Status, ShouldEqual, game.StatusIncorrect)
			})
		})
	})
}

func TestCompare_OptionalInts(t *testing.T) {
	Convey("Given a target with known age and jersey", t, func() {
		target := targetPlayer()

		Convey("When the guessed age is unknown", func() {
			guess := guessPlayer()
			guess.Age = nil
			c := game.Compare(&target, &guess)

			Convey("Then age is incorrect and the guessed value is null", func() {
				So(c.Age.Status, ShouldEqual, game.StatusIncorrect)
				So(c.Age.Guessed, ShouldBeNil)
				So(c.Age.Target, ShouldEqual, 39)
			})
		})

		Convey("When the target age is unknown", func() {
			unknown := targetPlayer()
			unknown.Age = nil
			guess := guessPlayer()
			c := game.Compare(&unknown, &guess)

			Convey("Then age is incorrect", func() {
				So(c.Age.Status, ShouldEqual, game.StatusIncorrect)
			})
		})

		Convey("When the guessed age is above the target", func() {
			guess := guessPlayer()
			guess.Age = intp(42)
			c := game.Compare(&target, &guess)

			Convey("Then age says lower", func() {
				So(c.Age.Status, ShouldEqual, game.StatusLower)
			})
		})

		Convey("When jersey numbers are equal", func() {
			guess := guessPlayer()
			guess.JerseyNumber = intp(23)
			c := game.Compare(&target, &guess)

			Convey("Then jersey is correct", func() {
				So(c.JerseyNumber.Status, ShouldEqual, game.StatusCorrect)
			})
		})

		Convey("When the guessed jersey is below the target", func() {
			guess := guessPlayer()
			guess.JerseyNumber = intp(8)
			c := game.Compare(&target, &guess)

			Convey("Then jersey says higher", func() {
				So(c.JerseyNumber.Status, ShouldEqual, game.StatusHigher)
			})
		})
	})
}

func TestCompare_Height(t *testing.T) {
	Convey("Given a 6-9 target", t, func() {
		target := targetPlayer()

		Convey("When heights are different listings of the same inches", func() {
			alias := targetPlayer()
			alias.Height = "5-21" // 81 inches, same as 6-9
			c := game.Compare(&target, &alias)

			Convey("Then height is correct", func() {
				So(c.Height.Status, ShouldEqual, game.StatusCorrect)
			})
		})

		Convey("When the guessed height is taller", func() {
			guess := guessPlayer()
			guess.Height = "7-1"
			c := game.Compare(&target, &guess)

			Convey("Then height says lower", func() {
				So(c.Height.Status, ShouldEqual, game.StatusLower)
			})
		})

		Convey("When heights are equal but unparseable strings", func() {
			odd1 := targetPlayer()
			odd1.Height = "six-nine-ish"
			odd2 := guessPlayer()
			odd2.Height = "six-nine-ish"
			c := game.Compare(&odd1, &odd2)

			Convey("Then the string shortcut still makes it correct", func() {
				So(c.Height.Status, ShouldEqual, game.StatusCorrect)
			})
		})

		Convey("When one height is unparseable", func() {
			guess := guessPlayer()
			guess.Height = "tall"
			c := game.Compare(&target, &guess)

			Convey("Then height is incorrect", func() {
				So(c.Height.Status, ShouldEqual, game.StatusIncorrect)
			})
		})

		Convey("When a height is empty", func() {
			guess := guessPlayer()
			guess.Height = ""
			c := game.Compare(&target, &guess)

			Convey("Then height is incorrect", func() {
				So(c.Height.Status, ShouldEqual, game.StatusIncorrect)
			})
		})
	})
}

func TestCompare_Position(t *testing.T) {
	Convey("Given a small forward target", t, func() {
		target := targetPlayer() // SF

		Convey("When the guess is a power forward", func() {
			guess := guessPlayer()
			guess.Position = "PF"
			c := game.Compare(&target, &guess)

			Convey("Then position is partial (both forwards)", func() {
				So(c.Position.Status, ShouldEqual, game.StatusPartial)
			})
		})

		Convey("When the guess is spelled out as Forward", func() {
			guess := guessPlayer()
			guess.Position = "Forward"
			c := game.Compare(&target, &guess)

			Convey("Then position is partial", func() {
				So(c.Position.Status, ShouldEqual, game.StatusPartial)
			})
		})

		Convey("When the positions match case-insensitively", func() {
			guess := guessPlayer()
			guess.Position = "sf"
			c := game.Compare(&target, &guess)

			Convey("Then position is correct", func() {
				So(c.Position.Status, ShouldEqual, game.StatusCorrect)
			})
		})

		Convey("When the guess is a center", func() {
			guess := guessPlayer()
			guess.Position = "C"
			c := game.Compare(&target, &guess)

			Convey("Then position is incorrect", func() {
				So(c.Position.Status, ShouldEqual, game.StatusIncorrect)
			})
		})

		Convey("When a hybrid listing spans groups", func() {
			hybrid := targetPlayer()
			hybrid.Position = "Guard-Forward"
			guess := guessPlayer() // PG
			c := game.Compare(&hybrid, &guess)

			Convey("Then the guard group wins and the match is partial", func() {
				So(c.Position.Status, ShouldEqual, game.StatusPartial)
			})
		})

		Convey("When a forward-center hybrid meets a center", func() {
			hybrid := targetPlayer()
			hybrid.Position = "F-C"
			guess := guessPlayer()
			guess.Position = "Center"
			c := game.Compare(&hybrid, &guess)

			Convey("Then the hybrid counts as forward and the match is incorrect", func() {
				So(c.Position.Status, ShouldEqual, game.StatusIncorrect)
			})
		})

		Convey("When a position is empty", func() {
			guess := guessPlayer()
			guess.Position = ""
			c := game.Compare(&target, &guess)

			Convey("Then position is incorrect", func() {
				So(c.Position.Status, ShouldEqual, game.StatusIncorrect)
			})
		})
	})
}

func TestCompare_PPG(t *testing.T) {
	Convey("Given a 25.0 ppg target", t, func() {
		target := targetPlayer()

		Convey("When both players have no recorded ppg", func() {
			zt := targetPlayer()
			zt.PPG = 0
			guess := guessPlayer()
			guess.PPG = 0
			c := game.Compare(&zt, &guess)

			Convey("Then the zero defaults compare as correct, never incorrect", func() {
				So(c.PPG.Status, ShouldEqual, game.StatusCorrect)
			})
		})

		Convey("When the guessed ppg is below the target", func() {
			guess := guessPlayer()
			guess.PPG = 10.5
			c := game.Compare(&target, &guess)

			Convey("Then ppg says higher", func() {
				So(c.PPG.Status, ShouldEqual, game.StatusHigher)
			})
		})

		Convey("When the guessed ppg equals the target", func() {
			guess := guessPlayer()
			guess.PPG = 25.0
			c := game.Compare(&target, &guess)

			Convey("Then ppg is correct", func() {
				So(c.PPG.Status, ShouldEqual, game.StatusCorrect)
			})
		})
	})
}
