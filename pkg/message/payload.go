package message

import "encoding/json"

// HotelSearch is the hotel finder form payload.
type HotelSearch struct {
	City       string `json:"city"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	Rooms      int    `json:"rooms"`
	Currency   string `json:"currency"`
	PriceRange string `json:"priceRange"`
	Rating     string `json:"rating"`
}

// DefaultHotelSearch returns the draft a new hotel form starts from.
func DefaultHotelSearch() HotelSearch {
	return HotelSearch{
		Adults:   1,
		Children: 0,
		Rooms:    1,
		Currency: "USD",
	}
}

// Image is the result of the image generator agent.
type Image struct {
	Service string `json:"service"`
	URL     string `json:"url,omitempty"`
}

// CryptoData is a market data answer. Data is markdown.
type CryptoData struct {
	Data   string `json:"data"`
	CoinID string `json:"coinId,omitempty"`
}

// Base is a Base network transaction message.
type Base struct {
	Message string `json:"message"`
}

// Swap is a token swap awaiting confirmation.
type Swap struct {
	Status     string          `json:"status"`
	TxType     string          `json:"tx_type"`
	Src        string          `json:"src"`
	SrcAddress string          `json:"src_address"`
	SrcAmount  float64         `json:"src_amount"`
	Dst        string          `json:"dst"`
	DstAddress string          `json:"dst_address"`
	DstAmount  float64         `json:"dst_amount"`
	Quote      json.RawMessage `json:"quote,omitempty"`
	FromAction int             `json:"fromAction,omitempty"`
}

// Claim is a reward claim awaiting confirmation.
type Claim struct {
	Status       string             `json:"status"`
	Transactions []ClaimTransaction `json:"transactions"`
}

// ClaimTransaction is one pool's claim transaction.
type ClaimTransaction struct {
	Pool        int             `json:"pool"`
	Transaction json.RawMessage `json:"transaction"`
}
