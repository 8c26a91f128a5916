package signal

// Frame types understood by the router.
const (
	typeRoom  = "room"
	typeCheck = "check"
	typeTalk  = "talk"
)

var welcome = struct {
	Message string `json:"message"`
}{
	Message: "welcome",
}
