package handler

import "github.com/gofiber/fiber/v3"

// The helpers below mount h behind an optional guard such as a role check or
// a rate limit.

func getGuarded(r fiber.Router, path string, guard, h fiber.Handler) {
	if guard == nil {
		r.Get(path, h)
		return
	}
	r.Get(path, guard, h)
}

func postGuarded(r fiber.Router, path string, guard, h fiber.Handler) {
	if guard == nil {
		r.Post(path, h)
		return
	}
	r.Post(path, guard, h)
}

func putGuarded(r fiber.Router, path string, guard, h fiber.Handler) {
	if guard == nil {
		r.Put(path, h)
		return
	}
	r.Put(path, guard, h)
}

func deleteGuarded(r fiber.Router, path string, guard, h fiber.Handler) {
	if guard == nil {
		r.Delete(path, h)
		return
	}
	r.Delete(path, guard, h)
}
