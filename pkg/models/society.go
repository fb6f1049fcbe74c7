package models

type Activity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Society is an assigned activity location as returned by the search
// endpoint.
type Society struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Activity Activity `json:"activity"`
}
