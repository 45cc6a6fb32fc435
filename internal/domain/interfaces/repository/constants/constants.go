package repoconstants

const CONVERSATION_COLLECTION = "conversations"
