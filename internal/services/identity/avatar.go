package identity

import "net/url"

const avatarBase = "https://api.dicebear.com/7.x/"

// CreatorAvatar is the fixed avatar of privileged accounts
const CreatorAvatar = avatarBase + "bottts/svg?seed=creator&backgroundColor=b6e3f4"

// AvatarFor returns the generated avatar URL for a seed
func AvatarFor(seed string) string {
	q := url.Values{}
	q.Set("seed", seed)
	return avatarBase + "avataaars/svg?" + q.Encode()
}
