package place

import (
	"fmt"
	"testing"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

func TestIntern(t *testing.T) {
	t.Parallel()

	c := NewCache(WithHandleFunc(counter()))
	usa, isNew := c.Intern("USA", "")
	if !isNew {
		t.Error("first intern should be new")
	}
	again, isNew := c.Intern("USA", "")
	if isNew || again != usa {
		t.Errorf("got %q new=%v, expected %q reused", again, isNew, usa)
	}
	other, _ := c.Intern("USA", "p99")
	if other == usa {
		t.Error("different parent must give a different handle")
	}
	if c.Hits() != 1 || c.Len() != 2 {
		t.Errorf("got hits=%d len=%d", c.Hits(), c.Len())
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	t.Run("same list shares every level", func(t *testing.T) {
		t.Parallel()
		c := NewCache(WithHandleFunc(counter()))
		first := c.Chain(Split("Baltimore, Maryland, USA"))
		second := c.Chain(Split("Baltimore, Maryland, USA"))
		if len(first) != 3 || len(second) != 3 {
			t.Fatalf("got %d and %d levels, expected 3", len(first), len(second))
		}
		for i := range first {
			if first[i].Handle != second[i].Handle {
				t.Errorf("level %d: %q != %q", i, first[i].Handle, second[i].Handle)
			}
			if second[i].New {
				t.Errorf("level %d should be reused", i)
			}
		}
		if first[0].Name != "USA" || first[2].Name != "Baltimore" {
			t.Errorf("chain should run top-down, got %+v", first)
		}
		if first[2].Parent != first[1].Handle || first[0].Parent != "" {
			t.Error("parents are not threaded")
		}
	})

	t.Run("different ancestry gives different places", func(t *testing.T) {
		t.Parallel()
		c := NewCache(WithHandleFunc(counter()))
		a := c.Chain(Split("Springfield, Illinois, USA"))
		b := c.Chain(Split("Springfield, Missouri, USA"))
		if a[0].Handle != b[0].Handle {
			t.Error("USA should be shared")
		}
		if a[2].Handle == b[2].Handle {
			t.Error("Springfield must not be shared across states")
		}
	})

	t.Run("blank levels are part of the ancestry", func(t *testing.T) {
		t.Parallel()
		c := NewCache(WithHandleFunc(counter()))
		levels := c.Chain(Split("Baltimore, , Maryland, USA"))
		if len(levels) != 4 {
			t.Fatalf("got %d levels, expected 4", len(levels))
		}
		if levels[2].Name != "" || levels[2].Index != 1 || levels[3].Name != "Baltimore" || levels[3].Index != 0 {
			t.Errorf("unexpected levels %+v", levels)
		}
		if levels[3].Parent != levels[2].Handle {
			t.Error("Baltimore should be enclosed by the blank level")
		}

		plain := c.Chain(Split("Baltimore, Maryland, USA"))
		if plain[1].Handle != levels[1].Handle {
			t.Error("Maryland should be shared")
		}
		if plain[2].Handle == levels[3].Handle {
			t.Error("lists that differ at a level must not share the terminal place")
		}

		again := c.Chain(Split("Baltimore, , Maryland, USA"))
		for i := range again {
			if again[i].Handle != levels[i].Handle || again[i].New {
				t.Errorf("level %d was not reused: %+v", i, again[i])
			}
		}
	})

	t.Run("all blank yields nothing", func(t *testing.T) {
		t.Parallel()
		c := NewCache()
		if got := c.Chain(Split(" , ,")); got != nil {
			t.Errorf("got %+v, expected nil", got)
		}
		if got := c.Chain(Split("")); got != nil {
			t.Errorf("got %+v, expected nil", got)
		}
		if c.Len() != 0 {
			t.Error("nothing should be cached")
		}
	})
}
