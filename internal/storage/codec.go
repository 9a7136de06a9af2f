package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mcoot/nexus/internal/model"
)

// Encode splits a state into its persisted key/value form. An absent
// session is encoded as an empty value so backends can delete the key.
func Encode(state *model.State) (map[string]string, error) {
	values := make(map[string]string, len(Keys()))

	if state.Session != nil {
		data, err := json.Marshal(state.Session)
		if err != nil {
			return nil, fmt.Errorf("encoding session: %w", err)
		}
		values[KeySession] = string(data)
	} else {
		values[KeySession] = ""
	}

	users, err := json.Marshal(state.Users)
	if err != nil {
		return nil, fmt.Errorf("encoding users: %w", err)
	}
	values[KeyUsers] = string(users)

	history, err := json.Marshal(state.ChatHistory)
	if err != nil {
		return nil, fmt.Errorf("encoding chat history: %w", err)
	}
	values[KeyChatHistory] = string(history)

	prefs, err := json.Marshal(state.Preferences)
	if err != nil {
		return nil, fmt.Errorf("encoding preferences: %w", err)
	}
	values[KeyPreferences] = string(prefs)

	values[KeyTotalVisits] = strconv.Itoa(state.TotalVisits)
	values[KeyOfficialURL] = state.OfficialURL
	return values, nil
}

// Decode rebuilds a state from persisted values. Missing keys take their
// zero/default values, the way a fresh profile reads.
func Decode(values map[string]string) (*model.State, error) {
	state := model.NewState()

	if v := values[KeySession]; v != "" {
		var session model.User
		if err := json.Unmarshal([]byte(v), &session); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		state.Session = &session
	}

	if v := values[KeyUsers]; v != "" {
		if err := json.Unmarshal([]byte(v), &state.Users); err != nil {
			return nil, fmt.Errorf("decoding users: %w", err)
		}
		if state.Users == nil {
			state.Users = []model.User{}
		}
	}

	if v := values[KeyChatHistory]; v != "" {
		if err := json.Unmarshal([]byte(v), &state.ChatHistory); err != nil {
			return nil, fmt.Errorf("decoding chat history: %w", err)
		}
		if state.ChatHistory == nil {
			state.ChatHistory = []model.Message{}
		}
	}

	if v := values[KeyPreferences]; v != "" {
		if err := json.Unmarshal([]byte(v), &state.Preferences); err != nil {
			return nil, fmt.Errorf("decoding preferences: %w", err)
		}
	}

	if v := values[KeyTotalVisits]; v != "" {
		visits, err := strconv.Atoi(v)
		if err != nil {
			// Unparseable counters read as zero
			visits = 0
		}
		state.TotalVisits = visits
	}

	state.OfficialURL = values[KeyOfficialURL]
	return state, nil
}
