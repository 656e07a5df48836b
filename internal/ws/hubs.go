package ws

type Hubs struct {
	Proctor *ProctorHub
	Asesi   *AsesiHub
}

func NewHubs() *Hubs {
	return &Hubs{
		Proctor: NewProctorHub(),
		Asesi:   NewAsesiHub(),
	}
}
