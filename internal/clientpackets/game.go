package clientpackets

// GameCommand wraps the three subcommand-envelope opcodes (0x60 broadcast,
// 0x62/0x6D targeted) into a single inbound shape: the raw envelope bytes,
// unmodified, since internal/subcommand.Router.Route parses them itself
// (§4.4). This parser only strips the packet header the caller already
// consumed; there is nothing else to decode at this layer.
type GameCommand struct {
	Envelope []byte
}

// ParseGameCommand wraps body as a GameCommand. body must already have the
// packet header removed; the subcommand opcode/size header inside it is
// left intact for Router.Route.
func ParseGameCommand(body []byte) (*GameCommand, error) {
	return &GameCommand{Envelope: body}, nil
}

// QuestListRequest asks for the quest menu of one category (§4.6).
type QuestListRequest struct {
	Category byte
}

// ParseQuestListRequest reads a QUEST_LIST request body: one category byte.
func ParseQuestListRequest(body []byte) (*QuestListRequest, error) {
	if len(body) < 1 {
		return nil, errShort("QuestListRequest", 1, len(body))
	}
	return &QuestListRequest{Category: body[0]}, nil
}

// QuestEndList signals the client finished browsing the quest menu without
// selecting anything (§4.6); it carries no payload.
type QuestEndList struct{}

// ParseQuestEndList returns a QuestEndList.
func ParseQuestEndList(body []byte) (*QuestEndList, error) {
	return &QuestEndList{}, nil
}
