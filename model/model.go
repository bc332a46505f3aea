package model

// NamedAPIResource is PokeAPI's reference to another resource.
type NamedAPIResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Pokemon is the subset of /pokemon/{id} the CLI renders.
type Pokemon struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	BaseExperience *int             `json:"base_experience"`
	Types          []PokemonType    `json:"types"`
	Abilities      []PokemonAbility `json:"abilities"`
	Stats          []PokemonStat    `json:"stats"`
	Sprites        PokemonSprites   `json:"sprites"`
}

type PokemonType struct {
	Slot int              `json:"slot"`
	Type NamedAPIResource `json:"type"`
}

type PokemonAbility struct {
	IsHidden bool             `json:"is_hidden"`
	Slot     int              `json:"slot"`
	Ability  NamedAPIResource `json:"ability"`
}

type PokemonStat struct {
	BaseStat int              `json:"base_stat"`
	Effort   int              `json:"effort"`
	Stat     NamedAPIResource `json:"stat"`
}

type PokemonSprites struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
	BackDefault  *string `json:"back_default"`
	BackShiny    *string `json:"back_shiny"`
}

// Move is the subset of /move/{id} the CLI renders.
type Move struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Accuracy    *int             `json:"accuracy"`
	Power       *int             `json:"power"`
	PP          *int             `json:"pp"`
	Type        NamedAPIResource `json:"type"`
	DamageClass NamedAPIResource `json:"damage_class"`
}

// Item is the subset of /item/{id} the CLI renders.
type Item struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Cost     int              `json:"cost"`
	Category NamedAPIResource `json:"category"`
}
