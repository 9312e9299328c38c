package internal

type Player struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

func NewPlayer(id, name string) *Player {
	return &Player{
		Id:        id,
		Name:      name,
		Connected: true,
	}
}

func (p *Player) AddPoints(points int) {
	p.Score += points
}

func (p *Player) ResetGameState() {
	p.Score = 0
}

// ToPublicPlayer returns a detached copy safe to hand to other goroutines.
func (p *Player) ToPublicPlayer() Player {
	return Player{
		Id:        p.Id,
		Name:      p.Name,
		Score:     p.Score,
		Connected: p.Connected,
	}
}
