package fallback

type Store interface {
	Load(key string) (string, error)
	Save(key string, val string) error
}

type MapStore struct {
	m map[string]string
}

func (s *MapStore) Load(key string) (string, error) {
	return s.m[key], nil
}

func (s *MapStore) Save(key string, val string) error {
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[key] = val
	return nil
}
