package alexa

func plain(text string) *OutputSpeech {
	return &OutputSpeech{Type: "PlainText", Text: text}
}

func simpleCard(title, content string) *Card {
	return &Card{Type: "Simple", Title: title, Content: content}
}

// Ask speaks and keeps the session open, repeating reprompt if the user is silent.
func Ask(speech, reprompt string) *Response {
	return &Response{
		OutputSpeech: plain(speech),
		Reprompt:     &Reprompt{OutputSpeech: *plain(reprompt)},
	}
}

// AskWithCard is Ask plus a card in the companion app.
func AskWithCard(speech, reprompt, title, content string) *Response {
	r := Ask(speech, reprompt)
	r.Card = simpleCard(title, content)
	return r
}

// Tell speaks and ends the session.
func Tell(speech string) *Response {
	return &Response{OutputSpeech: plain(speech), ShouldEndSession: true}
}

func TellWithCard(speech, title, content string) *Response {
	r := Tell(speech)
	r.Card = simpleCard(title, content)
	return r
}
