package rooms

import "time"

type createRoomRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type memberResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type roomResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Creator   memberResponse   `json:"createdBy"`
	Members   []memberResponse `json:"members"`
	CreatedAt time.Time        `json:"createdAt"`
}

type createRoomResponse struct {
	Message string       `json:"message"`
	Room    roomResponse `json:"room"`
}

type getRoomResponse struct {
	Room roomResponse `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomResponse `json:"rooms"`
}

type joinLeaveResponse struct {
	Message string       `json:"message"`
	Room    roomResponse `json:"room"`
}
