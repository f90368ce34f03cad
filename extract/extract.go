// Package extract decides which parts of a parsed message qualify
// for extraction.
package extract

import "github.com/emlkit/eml-attachments/message"

// Attachments returns the parts of msg to extract, in parser order.
//
// For a multipart message this is every immediate part identified as
// an attachment. A single-part message yields itself only when its
// disposition is explicitly attachment or inline; a declared filename
// alone is not enough there, unlike for multipart children.
func Attachments(msg *message.Message) []*message.Message {
	if msg.Multipart() {
		var atts []*message.Message
		for _, part := range msg.Parts() {
			if part.Attached() {
				atts = append(atts, part)
			}
		}
		return atts
	}

	switch msg.Disposition() {
	case "attachment", "inline":
		return []*message.Message{msg}
	}
	return nil
}
