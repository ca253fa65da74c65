package entity

import "time"

// Post is a published forum entry. Body holds raw markdown as
// submitted; rendering to HTML happens on the read side only.
// Attachment is empty when the post carried no file.
type Post struct {
	ID         int64
	Author     int64
	Title      string
	Body       string
	Attachment string
	Created    time.Time
}

// Reply is attached to a post. Replies are durable but have no public
// read endpoint; they are reachable only through the service layer.
type Reply struct {
	ID      int64
	Post    int64
	Author  int64
	Body    string
	Created time.Time
}
