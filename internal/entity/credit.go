package entity

import "time"

// CreditBalance is the per-user count of publication credits. It is only
// mutated through atomic storage-level increments and conditional decrements,
// never through read-modify-write.
type CreditBalance struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreditPack struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
	Price   int    `json:"price"`
}

// CreditPacks is the fixed pack catalogue, priced in FCFA.
var CreditPacks = map[string]CreditPack{
	"starter": {Key: "starter", Name: "Starter", Credits: 3, Price: 500},
	"regular": {Key: "regular", Name: "Regular", Credits: 10, Price: 1500},
	"pro":     {Key: "pro", Name: "Pro", Credits: 30, Price: 3500},
}
