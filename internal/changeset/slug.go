package changeset

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxSlugAttempts bounds the search for an unused word slug.
const maxSlugAttempts = 100

var (
	slugAdjectives = []string{
		"brave", "calm", "clever", "cool", "cuddly", "dirty", "eager", "early",
		"fancy", "fast", "fluffy", "funny", "gentle", "giant", "happy", "honest",
		"huge", "kind", "lazy", "lemon", "little", "loud", "lucky", "mighty",
		"modern", "neat", "nice", "odd", "old", "plenty", "polite", "proud",
		"quick", "quiet", "rare", "rich", "shiny", "silent", "silly", "slimy",
		"smart", "smooth", "soft", "spicy", "sweet", "swift", "tall", "tame",
		"tasty", "thin", "tidy", "tiny", "tough", "violet", "warm", "wild",
		"wise", "witty", "young", "yummy",
	}
	slugNouns = []string{
		"apples", "badgers", "bananas", "bears", "beds", "birds", "boats", "books",
		"bottles", "buses", "camels", "carrots", "cats", "chairs", "clocks", "clouds",
		"coats", "cooks", "crabs", "cups", "dancers", "deer", "dingos", "dodos",
		"dogs", "dolphins", "donkeys", "doors", "dragons", "ducks", "eagles", "eels",
		"experts", "falcons", "feet", "files", "flies", "forks", "foxes", "frogs",
		"garlic", "geckos", "ghosts", "goats", "grapes", "hairs", "hats", "hornets",
		"houses", "islands", "jars", "jokes", "keys", "kids", "kings", "kiwis",
		"lamps", "lemons", "lions", "lizards", "llamas", "maps", "mice", "moles",
		"monkeys", "moons", "moose", "news", "olives", "otters", "owls", "pandas",
		"parrots", "pans", "pears", "peas", "pens", "pigs", "planes", "plants",
		"plums", "poems", "queens", "rabbits", "rats", "ravens", "rings", "rivers",
		"rocks", "roses", "rules", "sails", "seals", "sheep", "ships", "shoes",
		"snails", "snakes", "socks", "spiders", "spoons", "squids", "stars", "swans",
		"tables", "teeth", "tigers", "toes", "trains", "trees", "turtles", "walls",
		"waves", "weeks", "wolves", "worms", "zebras",
	}
)

// randomSlug returns an adjective-adjective-noun slug.
func randomSlug() string {
	return strings.Join([]string{
		slugAdjectives[rand.IntN(len(slugAdjectives))],
		slugAdjectives[rand.IntN(len(slugAdjectives))],
		slugNouns[rand.IntN(len(slugNouns))],
	}, "-")
}

// fallbackSlug is used once word slugs keep colliding.
func fallbackSlug(at time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0][:6]
	return fmt.Sprintf("changeset-%s-%s", at.Format("20060102150405"), suffix)
}

// uniqueID returns a record ID whose file does not exist yet.
func (s *Store) uniqueID() string {
	gen := s.slug
	if gen == nil {
		gen = randomSlug
	}
	for range maxSlugAttempts {
		id := gen()
		if _, err := os.Stat(filepath.Join(s.Dir, id+".md")); os.IsNotExist(err) {
			return id
		}
	}

	now := s.now
	if now == nil {
		now = time.Now
	}
	return fallbackSlug(now())
}
