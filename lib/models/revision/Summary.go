package revision

type Summary struct {
	Number      Number
	Author      string
	Timestamp   int64
	Description string
	ChangeCount int
}
